// Package sitedex ingests websites into a searchable semantic index.
// It crawls sites breadth-first, extracts clean text through an external
// scraping service, generates vector embeddings, and stores pages and
// chunks in Postgres with pgvector for similarity search.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., postgres/, firecrawl/, gemini/).
package sitedex
