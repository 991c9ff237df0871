// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// randomFrame builds a valid frame of the given kind with random contents
func randomFrame(rng *rand.Rand, kind FrameKind) []byte {
	if kind == KindAck {
		return buildAck(uint16(rng.Intn(1000)), uint16(rng.Intn(1000)), uint16(rng.Intn(1000)))
	}
	var data [MeasurementPayloadLength - 2]byte
	rng.Read(data[:])
	return buildMeasurementFrame(data)
}

// mangle applies zero or more random corruptions to a frame
func mangle(rng *rand.Rand, frame []byte) []byte {
	out := bytes.Clone(frame)
	switch rng.Intn(4) {
	case 1:
		out[rng.Intn(len(out))] ^= byte(rng.Intn(255) + 1)
	case 2:
		out = out[:rng.Intn(len(out))+1]
	case 3:
		out[rng.Intn(len(out))] = byte(rng.Intn(256))
		out = out[:rng.Intn(len(out))+1]
	}
	return out
}

// TestFuzzDecoder_RandomBytes feeds random bytes to the decoder
// and verifies it doesn't panic and keeps its buffer bounded
func TestFuzzDecoder_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		d := NewDecoder()
		if rng.Intn(2) == 1 {
			d.Expect(KindAck)
		}

		data := make([]byte, rng.Intn(512)+1)
		rng.Read(data)
		// Bias towards start bytes so more bytes get past index 0
		for j := range data {
			if rng.Intn(8) == 0 {
				data[j] = []byte{MeasurementStart1, MeasurementStart2, CommandStart}[rng.Intn(3)]
			}
		}

		for _, b := range data {
			res, err := d.DecodeByte(b)
			if res == Reject && err == nil {
				t.Fatalf("Round %d: REJECT without error", i)
			}
			if res != Reject && err != nil {
				t.Fatalf("Round %d: %s with error %v", i, res, err)
			}
			if d.Buffered() > MeasurementFrameSize {
				t.Fatalf("Round %d: buffer grew to %d bytes", i, d.Buffered())
			}
		}
	}
}

// TestFuzzDecoder_BatchEquivalence checks that the first non-CONTINUE result
// of byte-at-a-time decoding matches one-shot classification of the same prefix
func TestFuzzDecoder_BatchEquivalence(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		kind := FrameKind(rng.Intn(2))
		data := mangle(rng, randomFrame(rng, kind))

		d := NewDecoder()
		d.Expect(kind)

		final := Continue
		var finalErr error
		consumed := len(data)
		for j, b := range data {
			res, err := d.DecodeByte(b)
			if res != Continue {
				final, finalErr = res, err
				consumed = j + 1
				break
			}
		}

		batch, batchErr := Classify(kind, data[:consumed])
		if batch != final {
			t.Fatalf("Round %d: %X incremental %s (%v), batch %s (%v)", i, data, final, finalErr, batch, batchErr)
		}
		for _, sentinel := range []error{ErrFraming, ErrLengthMismatch, ErrChecksumMismatch} {
			if errors.Is(finalErr, sentinel) != errors.Is(batchErr, sentinel) {
				t.Fatalf("Round %d: %X incremental error %v, batch error %v", i, data, finalErr, batchErr)
			}
		}
	}
}

// TestFuzzDecoder_RandomFrames decodes streams of valid frames separated by noise
func TestFuzzDecoder_RandomFrames(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		kind := FrameKind(rng.Intn(2))
		d := NewDecoder()
		d.Expect(kind)

		frame := randomFrame(rng, kind)
		// Noise never contains a start byte, so it cannot swallow the frame
		noise := make([]byte, rng.Intn(16))
		for j := range noise {
			noise[j] = byte(rng.Intn(0x40))
		}

		results, errs := feed(d, append(noise, frame...))
		last := len(results) - 1
		if results[last] != Complete {
			t.Fatalf("Round %d: frame %X ended with %s (%v)", i, frame, results[last], errs[last])
		}
		if !bytes.Equal(d.Frame().Data, frame) {
			t.Fatalf("Round %d: decoded %X, want %X", i, d.Frame().Data, frame)
		}
	}
}
