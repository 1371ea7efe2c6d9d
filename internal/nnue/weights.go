package nnue

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// File format constants, matching the HalfKP reference network this spec's
// loader must stay byte-compatible with: a fixed version word, a combined
// hash word mixing the input-transform and network hashes, then a
// length-prefixed ASCII description before the weight sections.
const (
	fileVersion = 0x7af32f16

	inputTransformHash = 0x5d69d5b8 ^ uint32(2*HalfDimensions)
	networkHash        = 0x63337156
	combinedHash       = inputTransformHash ^ networkHash
)

// LoadNetwork reads a Network from the weights file at path, verifying the
// version and hash words before trusting the rest of the stream.
func LoadNetwork(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nnue: open %s: %w", path, err)
	}
	defer f.Close()

	return loadNetworkFrom(bufio.NewReader(f))
}

func loadNetworkFrom(r io.Reader) (*Network, error) {
	var version, hash uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("nnue: reading version word: %w", err)
	}
	if version != fileVersion {
		return nil, fmt.Errorf("nnue: unsupported version 0x%08x (want 0x%08x)", version, fileVersion)
	}
	if err := binary.Read(r, binary.LittleEndian, &hash); err != nil {
		return nil, fmt.Errorf("nnue: reading hash word: %w", err)
	}
	if hash != combinedHash {
		return nil, fmt.Errorf("nnue: hash mismatch 0x%08x (want 0x%08x), file does not match this architecture", hash, combinedHash)
	}

	if _, err := readDescription(r); err != nil {
		return nil, fmt.Errorf("nnue: reading description: %w", err)
	}

	net := NewNetwork()

	if err := binary.Read(r, binary.LittleEndian, &net.InputBias); err != nil {
		return nil, fmt.Errorf("nnue: reading input bias: %w", err)
	}
	for i := range net.InputWeights {
		if err := binary.Read(r, binary.LittleEndian, &net.InputWeights[i]); err != nil {
			return nil, fmt.Errorf("nnue: reading input weight row %d: %w", i, err)
		}
	}

	for _, layer := range []*affineLayer{&net.L1, &net.L2, &net.L3} {
		if err := readAffineLayer(r, layer); err != nil {
			return nil, err
		}
	}

	return net, nil
}

// readDescription reads the length-prefixed (uint32 length, then that many
// ASCII bytes) diagnostic description string preceding the weight sections.
func readDescription(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readAffineLayer(r io.Reader, l *affineLayer) error {
	if err := binary.Read(r, binary.LittleEndian, &l.bias); err != nil {
		return fmt.Errorf("nnue: reading affine bias: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &l.weights); err != nil {
		return fmt.Errorf("nnue: reading affine weights: %w", err)
	}
	return nil
}
