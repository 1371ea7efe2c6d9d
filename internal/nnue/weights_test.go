package nnue

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestLoadNetworkRejectsWrongVersion(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0xdeadbeef))
	binary.Write(&buf, binary.LittleEndian, uint32(combinedHash))

	_, err := loadNetworkFrom(&buf)
	if err == nil {
		t.Fatal("expected an error for a mismatched version word")
	}
}

func TestLoadNetworkRejectsWrongHash(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(fileVersion))
	binary.Write(&buf, binary.LittleEndian, uint32(0xdeadbeef))

	_, err := loadNetworkFrom(&buf)
	if err == nil {
		t.Fatal("expected an error for a mismatched hash word")
	}
}

func TestLoadNetworkRejectsTruncatedDescription(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(fileVersion))
	binary.Write(&buf, binary.LittleEndian, uint32(combinedHash))
	binary.Write(&buf, binary.LittleEndian, uint32(64)) // claims a 64-byte description
	buf.WriteString("short")                             // but supplies far fewer bytes

	_, err := loadNetworkFrom(&buf)
	if err == nil {
		t.Fatal("expected an error reading a truncated description")
	}
}
