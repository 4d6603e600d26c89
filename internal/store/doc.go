// Package store defines the session store contract and its in-memory
// reference implementation. The contract is storage-agnostic: any backend
// that serializes per-key updates can stand in for the memory store.
package store
