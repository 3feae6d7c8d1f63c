package xordecode_test

import (
	"bytes"
	"encoding/hex"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/idelchi/unveil/pkg/keystream"
	"github.com/idelchi/unveil/pkg/xordecode"
)

// Case is a single golden decryption case. Byte fields are hex-encoded.
type Case struct {
	Description string `yaml:"description"`
	Encrypted   string `yaml:"encrypted"`
	Keystream   string `yaml:"keystream"`
	Decrypted   string `yaml:"decrypted"`
	Valid       bool   `yaml:"valid"`
	Offset      int    `yaml:"offset"`
}

// Group is a named collection of golden cases.
type Group struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`
}

func loadGroups(t *testing.T) []Group {
	t.Helper()

	files, err := filepath.Glob("testdata/*.yml")
	if err != nil {
		t.Fatalf("globbing testdata: %v", err)
	}

	if len(files) == 0 {
		t.Fatal("no testdata/*.yml files found")
	}

	var all []Group

	for _, f := range files {
		data, err := os.ReadFile(f) //nolint:gosec // test helper reads known testdata files
		if err != nil {
			t.Fatalf("reading %s: %v", f, err)
		}

		var groups []Group
		if err := yaml.Unmarshal(data, &groups); err != nil {
			t.Fatalf("parsing %s: %v", f, err)
		}

		all = append(all, groups...)
	}

	return all
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decoding %q: %v", s, err)
	}

	return b
}

func randomBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.UintN(256))
	}

	return b
}

func TestDecryptGolden(t *testing.T) {
	t.Parallel()

	for _, g := range loadGroups(t) {
		t.Run(g.Name, func(t *testing.T) {
			t.Parallel()

			for _, tc := range g.Cases {
				t.Run(tc.Description, func(t *testing.T) {
					t.Parallel()

					encrypted := mustHex(t, tc.Encrypted)
					want := mustHex(t, tc.Decrypted)

					got := xordecode.Decrypt(encrypted, keystream.Keystream(mustHex(t, tc.Keystream)))

					if !bytes.Equal(got.Data, want) {
						t.Errorf("Decrypt() data = %x, want %x", got.Data, want)
					}

					if got.Verdict.Valid != tc.Valid || got.Verdict.Offset != tc.Offset {
						t.Errorf("Decrypt() verdict = %+v, want {Valid:%v Offset:%d}", got.Verdict, tc.Valid, tc.Offset)
					}
				})
			}
		})
	}
}

func TestDecryptLengthAndCoverage(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic test data

	sizes := []int{0, 1, 3, 31, 32, 33, 1024, 4096}

	for _, dataLen := range sizes {
		for _, keyLen := range sizes {
			encrypted := randomBytes(r, dataLen)
			ks := keystream.Keystream(randomBytes(r, keyLen))

			original := bytes.Clone(encrypted)
			originalKey := bytes.Clone(ks)

			got := xordecode.Decrypt(encrypted, ks)

			if len(got.Data) != len(encrypted) {
				t.Fatalf("len=%d key=%d: output length %d", dataLen, keyLen, len(got.Data))
			}

			prefix := min(dataLen, keyLen)
			if got.Prefix != prefix {
				t.Errorf("len=%d key=%d: Prefix = %d, want %d", dataLen, keyLen, got.Prefix, prefix)
			}

			for i := range prefix {
				if got.Data[i] != encrypted[i]^ks[i] {
					t.Fatalf("len=%d key=%d: byte %d not combined", dataLen, keyLen, i)
				}
			}

			if !bytes.Equal(got.Data[prefix:], encrypted[prefix:]) {
				t.Errorf("len=%d key=%d: tail was modified", dataLen, keyLen)
			}

			if !bytes.Equal(encrypted, original) || !bytes.Equal(ks, originalKey) {
				t.Errorf("len=%d key=%d: inputs were mutated", dataLen, keyLen)
			}
		}
	}
}

func TestDecryptInvolution(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(3, 4)) //nolint:gosec // deterministic test data

	for range 50 {
		encrypted := randomBytes(r, r.IntN(2048))
		ks := keystream.Keystream(randomBytes(r, r.IntN(2048)))

		once := xordecode.Decrypt(encrypted, ks)
		twice := xordecode.Decrypt(once.Data, ks)

		if !bytes.Equal(twice.Data, encrypted) {
			t.Fatalf("decrypting twice with a %d byte keystream did not restore %d bytes", len(ks), len(encrypted))
		}
	}
}

func TestDecryptFreshBuffer(t *testing.T) {
	t.Parallel()

	encrypted := []byte("0123456789")

	got := xordecode.Decrypt(encrypted, nil)
	got.Data[0] = 'X'

	if encrypted[0] != '0' {
		t.Error("Decrypt() output aliases the input buffer")
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   []byte
		valid  bool
		offset int
	}{
		{name: "nil", data: nil, valid: false, offset: -1},
		{name: "too short", data: []byte("fty"), valid: false, offset: -1},
		{name: "mp4 box", data: append([]byte{0, 0, 0, 0x18}, []byte("ftypmp42")...), valid: true, offset: 4},
		{name: "first occurrence", data: []byte("xxftypftyp"), valid: true, offset: 2},
		{name: "last position in window", data: append(make([]byte, 28), []byte("ftyp")...), valid: true, offset: 28},
		{name: "case sensitive", data: []byte("\x00\x00\x00\x18FTYP"), valid: false, offset: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := xordecode.Inspect(tt.data)
			if got.Valid != tt.valid || got.Offset != tt.offset {
				t.Errorf("Inspect(%q) = %+v, want {Valid:%v Offset:%d}", tt.data, got, tt.valid, tt.offset)
			}
		})
	}
}

func TestHeader(t *testing.T) {
	t.Parallel()

	if got := xordecode.Header(make([]byte, 100)); len(got) != xordecode.Window {
		t.Errorf("Header() length = %d, want %d", len(got), xordecode.Window)
	}

	if got := xordecode.Header([]byte{1, 2}); len(got) != 2 {
		t.Errorf("Header() length = %d, want 2", len(got))
	}
}
