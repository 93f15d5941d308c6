// Package token estimates how many language-model tokens the rendered
// output will consume. A character-count heuristic is the fallback; when a
// precise tokenizer is available for the target model it is preferred, with
// a small per-model-family correction applied on top.
package token

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Counter counts tokens in text.
type Counter interface {
	Count(text string) int
	// Close releases tokenizer resources, if any.
	Close()
}

// heuristicDivisor is the fallback characters-per-token estimate.
const heuristicDivisor = 4

// Heuristic is the divisor-based fallback estimator.
type Heuristic struct{}

func (Heuristic) Count(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + heuristicDivisor - 1) / heuristicDivisor
}

func (Heuristic) Close() {}

// familyCorrections are multiplicative adjustments for model families whose
// tokenizers differ slightly from the encoding tiktoken reports. Stable
// within a family, so a prefix match is enough.
var familyCorrections = map[string]float64{
	"gpt-":    1.0,
	"o1":      1.0,
	"claude":  1.1,
	"mistral": 1.15,
}

// Tiktoken counts with a real BPE encoding plus a family correction.
type Tiktoken struct {
	enc        *tiktoken.Tiktoken
	correction float64
}

// NewTiktoken resolves the encoding for a model name. Unknown models fall
// back to the default encoding with their family correction retained.
func NewTiktoken(model string) (*Tiktoken, error) {
	if model == "" {
		model = "gpt-4o"
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("o200k_base")
		if err != nil {
			return nil, fmt.Errorf("tiktoken encoding unavailable: %w", err)
		}
	}
	return &Tiktoken{enc: enc, correction: correctionFor(model)}, nil
}

func correctionFor(model string) float64 {
	lower := strings.ToLower(model)
	for prefix, c := range familyCorrections {
		if strings.HasPrefix(lower, prefix) {
			return c
		}
	}
	return 1.0
}

func (t *Tiktoken) Count(text string) int {
	if t.enc == nil {
		return 0
	}
	n := float64(len(t.enc.EncodeOrdinary(text))) * t.correction
	return int(n + 0.5)
}

func (t *Tiktoken) Close() {}

// Local wraps a tokenizer loaded from a local HuggingFace tokenizer file.
// Nothing is fetched from the network.
type Local struct {
	tk *hf.Tokenizer
}

// NewLocal loads a tokenizer.json-style file from disk.
func NewLocal(path string) (*Local, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer file %s: %w", path, err)
	}
	return &Local{tk: tk}, nil
}

func (l *Local) Count(text string) int {
	if l.tk == nil {
		return 0
	}
	en, err := l.tk.EncodeSingle(text)
	if err != nil {
		return 0
	}
	return len(en.Tokens)
}

func (l *Local) Close() {}
