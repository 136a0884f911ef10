// Package tokenizer measures the size of transcript entries for chunk packing.
package tokenizer

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const (
	PolicyCharacters = "characters"
	PolicyTokens     = "tokens"
)

// Estimator returns a non-negative size for one entry.
type Estimator interface {
	Size(entry string) int
}

// ConfigurationError reports an estimator that cannot be built from the
// configured policy or model. It is raised before any network call.
type ConfigurationError struct {
	Policy string
	Model  string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("tokenizer %s for model %q: %v", e.Policy, e.Model, e.Err)
	}
	return fmt.Sprintf("tokenizer %q: %v", e.Policy, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Func adapts a plain function to Estimator.
type Func func(entry string) int

func (f Func) Size(entry string) int { return f(entry) }

// Characters counts runes.
type Characters struct{}

func (Characters) Size(entry string) int { return utf8.RuneCountInString(entry) }

// ModelTokens counts tokens with the model's tiktoken encoding.
type ModelTokens struct {
	model string
	enc   *tiktoken.Tiktoken
}

var loaderOnce sync.Once

// NewModelTokens looks up the encoding for model. BPE ranks come from the
// embedded offline loader.
func NewModelTokens(model string) (*ModelTokens, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, &ConfigurationError{Policy: PolicyTokens, Model: model, Err: err}
	}
	return &ModelTokens{model: model, enc: enc}, nil
}

func (m *ModelTokens) Size(entry string) int {
	return len(m.enc.Encode(entry, nil, nil))
}

// Model returns the model identifier the encoding was resolved for
func (m *ModelTokens) Model() string { return m.model }

// New builds the estimator for policy. model is only used by PolicyTokens.
func New(policy, model string) (Estimator, error) {
	switch policy {
	case PolicyCharacters, "":
		return Characters{}, nil
	case PolicyTokens:
		mt, err := NewModelTokens(model)
		if err != nil {
			return nil, err
		}
		return mt, nil
	default:
		return nil, &ConfigurationError{Policy: policy, Err: fmt.Errorf("unknown size policy")}
	}
}
