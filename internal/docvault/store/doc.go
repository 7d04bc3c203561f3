// Package store provides the persistence layer for document chunks.
//
// It defines the vector store gateway interface plus a Milvus-backed
// implementation and an in-memory implementation with identical semantics.
package store
