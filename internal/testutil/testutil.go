// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/mannaz/internal/index"
	"github.com/starford/mannaz/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "mannaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// SampleMeetingNote is a minimal synced meeting note used across tests.
const SampleMeetingNote = `---
title: "2024-01-02 Standup"
category: "[[Meetings]]"
type:
created_at: 2024-01-02T10:00:00Z
org: "[[Acme]]"
people: ["[[Alice A|a@x.com]]"]
topics:
tags: meetings
granola_id: doc-1
---

Discussed things.
`
