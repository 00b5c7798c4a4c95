package binarize

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
)

// Dataset container signature and version.
const (
	datasetMagic   = 0x42505244 // "BPRD"
	datasetVersion = 1
)

var (
	ErrInvalidFormat = errors.New("binarize: not a binarized dataset file")
	ErrCorrupted     = errors.New("binarize: truncated or corrupted dataset")
)

// writeDataset serializes sentences as a framed little-endian container:
// magic, version, sentence count, then per sentence a length followed by
// that many ids, all uint32. The file is written atomically.
func writeDataset(path string, sentences [][]uint32) error {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(datasetMagic))
	binary.Write(&buf, binary.LittleEndian, uint32(datasetVersion))
	binary.Write(&buf, binary.LittleEndian, uint32(len(sentences)))
	for _, ids := range sentences {
		binary.Write(&buf, binary.LittleEndian, uint32(len(ids)))
		for _, id := range ids {
			binary.Write(&buf, binary.LittleEndian, id)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadDataset loads a binarized dataset, returning the same ordered
// sequence of id sequences that was written. An empty sentence is returned
// as a nil slice.
func ReadDataset(path string) ([][]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(data)
	var magic, version, nsent uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, ErrInvalidFormat
	}
	if magic != datasetMagic {
		return nil, ErrInvalidFormat
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil || version != datasetVersion {
		return nil, ErrInvalidFormat
	}
	if err := binary.Read(r, binary.LittleEndian, &nsent); err != nil {
		return nil, ErrCorrupted
	}

	sentences := make([][]uint32, 0, nsent)
	for i := uint32(0); i < nsent; i++ {
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, ErrCorrupted
		}
		if uint64(n)*4 > uint64(r.Len()) {
			return nil, ErrCorrupted
		}
		var ids []uint32
		if n > 0 {
			ids = make([]uint32, n)
			if err := binary.Read(r, binary.LittleEndian, ids); err != nil {
				return nil, ErrCorrupted
			}
		}
		sentences = append(sentences, ids)
	}
	if r.Len() != 0 {
		return nil, ErrCorrupted
	}
	return sentences, nil
}
