// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
)

// persistVersion is the only version this codec accepts.
const persistVersion uint32 = 0

// writeCompactSize writes n using the Bitcoin compact-size encoding: a
// single byte for n < 0xfd, else a marker byte followed by a fixed-width
// little-endian field sized to n.
func writeCompactSize(w *bytes.Buffer, n uint64) {
	switch {
	case n < 0xfd:
		w.WriteByte(byte(n))
	case n <= 0xffff:
		w.WriteByte(0xfd)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(n))
		w.Write(b[:])
	case n <= 0xffffffff:
		w.WriteByte(0xfe)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		w.Write(b[:])
	default:
		w.WriteByte(0xff)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], n)
		w.Write(b[:])
	}
}

// readCompactSize reads a Bitcoin compact-size encoded value.
func readCompactSize(r *bytes.Reader) (uint64, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, wrapf(ErrDecodeError, "compact-size: %v", err)
	}
	switch b {
	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, wrapf(ErrDecodeError, "compact-size fd: %v", err)
		}
		return uint64(binary.LittleEndian.Uint16(buf[:])), nil
	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, wrapf(ErrDecodeError, "compact-size fe: %v", err)
		}
		return uint64(binary.LittleEndian.Uint32(buf[:])), nil
	case 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, wrapf(ErrDecodeError, "compact-size ff: %v", err)
		}
		return binary.LittleEndian.Uint64(buf[:]), nil
	default:
		return uint64(b), nil
	}
}

// Dump serializes the entire store to its versioned binary layout: a magic
// header, the bucket-hashing secret, the full entry table, and the fresh
// and used bucket membership lists.
func (a *AddrManager) Dump() []byte {
	var buf bytes.Buffer

	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], persistVersion)
	binary.LittleEndian.PutUint32(hdr[4:8], a.networkMagic)
	buf.Write(hdr[:])
	buf.Write(a.key[:])

	writeCompactSize(&buf, uint64(len(a.addrIndex)))
	for _, ka := range a.addrIndex {
		rec := ka.encode()
		buf.Write(rec[:])
	}

	for i := range a.addrFresh {
		writeCompactSize(&buf, uint64(len(a.addrFresh[i])))
		for key := range a.addrFresh[i] {
			buf.Write(key[:])
		}
	}

	for i := range a.addrUsed {
		lst := a.addrUsed[i]
		writeCompactSize(&buf, uint64(lst.Len()))
		for e := lst.Front(); e != nil; e = e.Next() {
			key := e.Value.(*knownAddress).addr.Key()
			buf.Write(key[:])
		}
	}

	return buf.Bytes()
}

// Load resets the store and reconstructs it from a dump produced by Dump,
// revalidating every cross-referential invariant as it goes. Any failure
// leaves the store in a fresh, empty state and returns a non-nil error
// wrapping ErrDecodeError.
func (a *AddrManager) Load(data []byte) error {
	a.Reset()

	if err := a.load(data); err != nil {
		a.Reset()
		return err
	}
	a.dirty = false
	return nil
}

func (a *AddrManager) load(data []byte) error {
	r := bytes.NewReader(data)

	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return wrapf(ErrDecodeError, "header: %v", err)
	}
	version := binary.LittleEndian.Uint32(hdr[0:4])
	magic := binary.LittleEndian.Uint32(hdr[4:8])
	if version != persistVersion {
		return wrapf(ErrDecodeError, "unsupported version %d", version)
	}
	if magic != a.networkMagic {
		return wrapf(ErrDecodeError, "network magic mismatch: got %#x want %#x", magic, a.networkMagic)
	}

	if _, err := io.ReadFull(r, a.key[:]); err != nil {
		return wrapf(ErrDecodeError, "key: %v", err)
	}

	now := a.opts.Clock.Now()

	n, err := readCompactSize(r)
	if err != nil {
		return wrapf(ErrDecodeError, "entry count: %v", err)
	}
	for i := uint64(0); i < n; i++ {
		var rec [entryRecordSize]byte
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return wrapf(ErrDecodeError, "entry %d: %v", i, err)
		}
		ka := decodeEntry(rec, now)
		key := ka.addr.Key()
		if _, dup := a.addrIndex[key]; dup {
			return wrapf(ErrDecodeError, "duplicate entry for key %v", key)
		}
		a.addrIndex[key] = ka
	}

	for b := 0; b < freshBucketCount; b++ {
		l, err := readCompactSize(r)
		if err != nil {
			return wrapf(ErrDecodeError, "fresh bucket %d count: %v", b, err)
		}
		if l > freshBucketSize {
			return wrapf(ErrDecodeError, "fresh bucket %d overflow: %d", b, l)
		}
		for i := uint64(0); i < l; i++ {
			var key AddressKey
			if _, err := io.ReadFull(r, key[:]); err != nil {
				return wrapf(ErrDecodeError, "fresh bucket %d key %d: %v", b, i, err)
			}
			ka, ok := a.addrIndex[key]
			if !ok {
				return wrapf(ErrDecodeError, "fresh bucket %d: unknown key %v", b, key)
			}
			if ka.refCount == 0 {
				a.totalFresh++
			}
			ka.refCount++
			a.addrFresh[b][key] = ka
		}
	}

	for b := 0; b < usedBucketCount; b++ {
		m, err := readCompactSize(r)
		if err != nil {
			return wrapf(ErrDecodeError, "used bucket %d count: %v", b, err)
		}
		if m > usedBucketSize {
			return wrapf(ErrDecodeError, "used bucket %d overflow: %d", b, m)
		}
		for i := uint64(0); i < m; i++ {
			var key AddressKey
			if _, err := io.ReadFull(r, key[:]); err != nil {
				return wrapf(ErrDecodeError, "used bucket %d key %d: %v", b, i, err)
			}
			ka, ok := a.addrIndex[key]
			if !ok {
				return wrapf(ErrDecodeError, "used bucket %d: unknown key %v", b, key)
			}
			if ka.refCount != 0 || ka.used {
				return wrapf(ErrDecodeError, "used bucket %d: key %v already placed", b, key)
			}
			ka.used = true
			ka.usedBucket = b
			ka.usedElem = a.addrUsed[b].PushBack(ka)
			a.totalUsed++
		}
	}

	if r.Len() != 0 {
		return wrapf(ErrDecodeError, "%d trailing bytes", r.Len())
	}

	for key, ka := range a.addrIndex {
		if !ka.used && ka.refCount == 0 {
			return wrapf(ErrDecodeError, "entry %v is neither used nor referenced", key)
		}
	}

	return nil
}

// Open loads the store from path, set as the manager's persistence
// target for subsequent Flush calls. A missing or unreadable file returns
// an error wrapping ErrFileError and leaves the manager in the freshly
// Reset state New already put it in; path is still kept as the Flush
// target.
func (a *AddrManager) Open(path string) error {
	a.peersFile = path
	data, err := os.ReadFile(path)
	if err != nil {
		return wrapf(ErrFileError, "open %s: %v", path, err)
	}
	if err := a.Load(data); err != nil {
		a.opts.Logger.Warnf("discarding corrupt peers file %s: %v", path, err)
		return err
	}
	return nil
}

// Flush atomically writes the store to its configured persistence path via
// a temp-file-then-rename, so a crash mid-write cannot corrupt the
// previous, already-validated dump.
func (a *AddrManager) Flush() error {
	if a.peersFile == "" {
		return wrapf(ErrFileError, "flush: no path configured, call Open first")
	}
	dir := filepath.Dir(a.peersFile)
	tmp, err := os.CreateTemp(dir, filepath.Base(a.peersFile)+".tmp-*")
	if err != nil {
		return wrapf(ErrFileError, "flush: create temp file: %v", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(a.Dump()); err != nil {
		tmp.Close()
		return wrapf(ErrFileError, "flush: write: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return wrapf(ErrFileError, "flush: close: %v", err)
	}
	if err := os.Rename(tmpName, a.peersFile); err != nil {
		return wrapf(ErrFileError, "flush: rename: %v", err)
	}
	a.dirty = false
	a.opts.Logger.Debugf("flushed %d addresses to %s", a.Total(), a.peersFile)
	return nil
}

// Close flushes any pending changes. It does not stop goroutines or
// release locks: the manager owns neither. A manager that was never Open'd
// has no persistence target and nothing to flush, so Close is a no-op for
// a purely in-memory manager.
func (a *AddrManager) Close() error {
	if a.peersFile == "" || !a.dirty {
		return nil
	}
	return a.Flush()
}
