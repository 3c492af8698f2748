// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package artifactdir

import (
	"errors"
	"regexp"
	"testing"

	"github.com/provernet/coordinator/lib/schema/artifact"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func testDirectory() *Directory {
	return New(Config{
		Bucket:        "spn-artifacts",
		PublicBaseURL: "http://spn-coordinator-001:8082/",
		UploadBaseURL: "http://localhost:8082",
	})
}

func TestMintURIs(t *testing.T) {
	directory := testDirectory()

	tests := []struct {
		artifactType artifact.Type
		prefix       string
	}{
		{artifact.TypeUnspecified, "artifacts"},
		{artifact.TypeProgram, "programs"},
		{artifact.TypeStdin, "stdins"},
		{artifact.TypeProof, "proofs"},
		{artifact.TypeTransaction, "transactions"},
	}
	for _, test := range tests {
		t.Run(test.artifactType.String(), func(t *testing.T) {
			minted, err := directory.Mint(test.artifactType)
			if err != nil {
				t.Fatalf("Mint: %v", err)
			}
			if !idPattern.MatchString(minted.ID) {
				t.Errorf("id %q is not 32 lower-case hex characters", minted.ID)
			}
			if want := "s3://spn-artifacts/" + test.prefix + "/" + minted.ID; minted.URI != want {
				t.Errorf("URI = %q, want %q", minted.URI, want)
			}
			if want := "http://spn-coordinator-001:8082/artifacts/" + minted.ID; minted.PresignedURL != want {
				t.Errorf("PresignedURL = %q, want %q", minted.PresignedURL, want)
			}
		})
	}
}

func TestMintUnknownType(t *testing.T) {
	if _, err := testDirectory().Mint(artifact.Type(99)); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Mint(99) = %v, want ErrUnknownType", err)
	}
	if _, err := testDirectory().Create(artifact.Type(-1)); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Create(-1) = %v, want ErrUnknownType", err)
	}
}

func TestMintDoesNotRecord(t *testing.T) {
	directory := testDirectory()
	minted, err := directory.Mint(artifact.TypeProof)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := directory.lookup(minted.URI); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lookup before Record = %v, want ErrNotFound", err)
	}
	directory.Record(minted)
	found, err := directory.lookup(minted.URI)
	if err != nil || found != minted {
		t.Errorf("lookup = %+v, %v; want %+v", found, err, minted)
	}
}

func TestCreateIDsAreUnique(t *testing.T) {
	directory := testDirectory()
	seen := make(map[string]bool)
	for range 100 {
		created, err := directory.Create(artifact.TypeStdin)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate id %s", created.ID)
		}
		seen[created.ID] = true
	}
	if directory.Len() != 100 {
		t.Errorf("Len = %d, want 100", directory.Len())
	}
}

func TestUploadURL(t *testing.T) {
	if got := testDirectory().UploadURL("abc"); got != "http://localhost:8082/artifacts/abc" {
		t.Errorf("UploadURL = %q", got)
	}
}

func TestIDFromURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"s3://spn-artifacts/proofs/0123abcd", "0123abcd", false},
		{"http://spn-coordinator-001:8082/artifacts/feed", "feed", false},
		{"s3://spn-artifacts/", "", true},
		{"not a uri", "", true},
	}
	for _, test := range tests {
		got, err := IDFromURI(test.uri)
		if (err != nil) != test.wantErr || got != test.want {
			t.Errorf("IDFromURI(%q) = %q, %v", test.uri, got, err)
		}
	}
}
