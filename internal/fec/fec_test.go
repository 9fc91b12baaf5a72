package fec

import (
	"testing"
)

func TestRSEncoder_EncodeBlock(t *testing.T) {
	rs, err := NewRSEncoder()
	if err != nil {
		t.Fatalf("Failed to create RS encoder: %v", err)
	}

	data := make([]byte, 180)
	for i := range data {
		data[i] = byte(i)
	}

	encoded, err := rs.EncodeBlock(data)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	expectedLen := DefaultDataShards + DefaultParityShards // RS(204,188)
	if len(encoded) != expectedLen {
		t.Errorf("Encoded length: %d, expected %d", len(encoded), expectedLen)
	}
}

func TestRSEncoder_EncodeDecode(t *testing.T) {
	rs, err := NewRSEncoder()
	if err != nil {
		t.Fatalf("Failed to create RS encoder: %v", err)
	}

	data := []byte("This is test data for Reed-Solomon encoding and decoding verification. " +
		"The data should survive encoding and decoding without errors.")

	encoded, err := rs.Encode(data)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	decoded, err := rs.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	// Decoded should contain the original data (padded to shard size)
	for i := range data {
		if i < len(decoded) && data[i] != decoded[i] {
			t.Errorf("Byte %d mismatch: 0x%02x != 0x%02x", i, data[i], decoded[i])
		}
	}
}

func TestRSEncoder_ErrorCorrection(t *testing.T) {
	// RS(204,188), the outer FEC packetmode.FECDecoder actually runs.
	rs, err := NewRSEncoderCustom(188, 16)
	if err != nil {
		t.Fatalf("Failed to create RS encoder: %v", err)
	}

	data := make([]byte, 188)
	for i := range data {
		data[i] = byte(i * 7)
	}

	encoded, err := rs.EncodeBlock(data)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	// RS(204,188) carries 16 parity shards, so up to 8 erasures recover cleanly.
	corrupted := make([]byte, len(encoded))
	copy(corrupted, encoded)

	erasures := []int{2, 5, 20, 50, 100, 150, 190, 203}
	for _, idx := range erasures {
		corrupted[idx] = 0
	}

	decoded, err := rs.DecodeBlock(corrupted, erasures)
	if err != nil {
		t.Fatalf("Decode error with erasures: %v", err)
	}

	for i := range data {
		if decoded[i] != data[i] {
			t.Errorf("Byte %d: 0x%02x != 0x%02x", i, decoded[i], data[i])
		}
	}
}
