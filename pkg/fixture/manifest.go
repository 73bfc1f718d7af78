package fixture

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// ManifestName is the name the manifest is stored under in a sink.
const ManifestName = "manifest.msgpack"

// ManifestVersion is the manifest layout written by this package.
const ManifestVersion = 1

// Manifest lists the fixtures written to a sink.
type Manifest struct {
	Version int     `msgpack:"v"`
	Entries []Entry `msgpack:"e"`
}

// Entry describes one stored fixture.
type Entry struct {
	Name     string `msgpack:"n"` // stored name, extension included
	Type     string `msgpack:"t"` // packet kind, e.g. "PUBLISH"
	Size     int    `msgpack:"s"`
	Checksum uint64 `msgpack:"c"` // xxhash64 of the stored bytes
}

// Checksum returns the xxhash64 digest used in manifest entries.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Add appends an entry for data stored under name.
func (m *Manifest) Add(name, kind string, data []byte) {
	m.Entries = append(m.Entries, Entry{
		Name:     name,
		Type:     kind,
		Size:     len(data),
		Checksum: Checksum(data),
	})
}

// Lookup returns the entry stored under name.
func (m *Manifest) Lookup(name string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Marshal encodes the manifest with msgpack.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}

// UnmarshalManifest decodes a msgpack manifest.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedManifest, m.Version)
	}
	return &m, nil
}

// WriteManifest stores m in sink under ManifestName.
func WriteManifest(ctx context.Context, sink Sink, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return sink.Put(ctx, ManifestName, data)
}

// ReadManifest loads the manifest stored in sink.
func ReadManifest(ctx context.Context, sink Sink) (*Manifest, error) {
	data, err := sink.Get(ctx, ManifestName)
	if err != nil {
		return nil, err
	}
	return UnmarshalManifest(data)
}
