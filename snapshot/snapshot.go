// Package snapshot persists finished dirtree trees.
//
// A snapshot is a CBOR container holding the compressed node table and a
// BLAKE3 digest of the uncompressed table. Nodes are stored in ID order
// with their parent, so decoding replays the allocation order and yields
// identical IDs, child order, paths and sizes.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/phroun/dirtree"
)

const (
	magic   = "DTS1"
	version = 1

	// maxRawSize bounds the decompressed node table.
	maxRawSize = 1 << 30
)

// ErrChecksum indicates that the node table does not match its digest.
var ErrChecksum = errors.New("snapshot checksum mismatch")

// ErrFormat indicates a malformed snapshot.
var ErrFormat = errors.New("malformed snapshot")

// container is the outer CBOR document.
type container struct {
	Magic       string      `cbor:"magic"`
	Version     int         `cbor:"version"`
	Compression Compression `cbor:"compression"`
	Root        uint64      `cbor:"root"`
	RawSize     uint64      `cbor:"raw_size"`
	Digest      []byte      `cbor:"digest"`
	Payload     []byte      `cbor:"payload"`
}

// record is one node. Parent is the parent ID plus one, 0 for none.
type record struct {
	_      struct{} `cbor:",toarray"`
	Kind   uint8
	Name   string
	Size   uint64
	Parent uint64
}

// encMode uses Core Deterministic Encoding: the same tree always yields
// the same bytes.
var encMode cbor.EncMode

// decMode lifts the element cap to the int32 limit. The node table is one
// array with an element per node, and maxRawSize already bounds its bytes.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		MaxArrayElements: math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serializes t. Only trees whose children were allocated after
// their parents, in child order, can be encoded; every tree built with
// Record qualifies.
func Encode(t *dirtree.Tree, c Compression) ([]byte, error) {
	a := t.Arena()
	records := make([]record, a.Len())
	for i := range records {
		id := dirtree.NodeID(i)
		p, err := a.Payload(id)
		if err != nil {
			return nil, err
		}
		rec := record{Kind: uint8(p.Kind), Name: p.Name, Size: p.Size}
		if parent, ok := a.Parent(id); ok {
			rec.Parent = uint64(parent) + 1
		}
		prev := id
		for _, child := range a.Children(id) {
			if child <= prev {
				return nil, fmt.Errorf("encoding node %d: children out of allocation order", id)
			}
			prev = child
		}
		records[i] = rec
	}

	raw, err := encMode.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding nodes: %w", err)
	}
	digest := blake3.Sum256(raw)
	payload, used, err := compress(raw, c)
	if err != nil {
		return nil, err
	}

	return encMode.Marshal(container{
		Magic:       magic,
		Version:     version,
		Compression: used,
		Root:        uint64(t.Root()),
		RawSize:     uint64(len(raw)),
		Digest:      digest[:],
		Payload:     payload,
	})
}

// Decode rebuilds a tree from Encode output. The cursor starts at the root.
func Decode(data []byte, opts dirtree.Options) (*dirtree.Tree, error) {
	var box container
	if err := decMode.Unmarshal(data, &box); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if box.Magic != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, box.Magic)
	}
	if box.Version != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, box.Version)
	}
	if box.RawSize > maxRawSize {
		return nil, fmt.Errorf("%w: node table of %d bytes", ErrFormat, box.RawSize)
	}

	raw, err := decompress(box.Payload, box.Compression, int(box.RawSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	digest := blake3.Sum256(raw)
	if !bytes.Equal(digest[:], box.Digest) {
		return nil, ErrChecksum
	}

	var records []record
	if err := decMode.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding nodes: %w", err)
	}

	arena, err := rebuild(records)
	if err != nil {
		return nil, err
	}
	return dirtree.Resume(arena, dirtree.NodeID(box.Root), opts)
}

// rebuild validates records before attaching them, since Attach panics on
// malformed input.
func rebuild(records []record) (*dirtree.Arena, error) {
	a := dirtree.NewArena()
	for i, rec := range records {
		var p dirtree.Payload
		switch dirtree.Kind(rec.Kind) {
		case dirtree.KindDirectory:
			p = dirtree.Directory(rec.Name)
		case dirtree.KindFile:
			p = dirtree.File(rec.Name, rec.Size)
		default:
			return nil, fmt.Errorf("%w: node %d has kind %d", ErrFormat, i, rec.Kind)
		}
		a.Allocate(p)
	}
	for i, rec := range records {
		if rec.Parent == 0 {
			continue
		}
		parent := rec.Parent - 1
		if parent >= uint64(i) {
			return nil, fmt.Errorf("%w: node %d has parent %d", ErrFormat, i, parent)
		}
		if dirtree.Kind(records[parent].Kind) != dirtree.KindDirectory {
			return nil, fmt.Errorf("%w: node %d has file parent %d", ErrFormat, i, parent)
		}
		a.Attach(dirtree.NodeID(parent), dirtree.NodeID(i))
	}
	return a, nil
}
