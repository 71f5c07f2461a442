package remote

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"genoscope/models/dtos/errors"
)

// Evo2Adapter generates DNA continuations with the hosted NVIDIA Evo2
// model. Without an API key it runs a deterministic local simulation,
// so the tool has a stable answer in unconfigured environments.
type Evo2Adapter struct {
	client  *Client
	baseUrl string
	apiKey  string
}

func NewEvo2Adapter(client *Client, baseUrl, apiKey string) *Evo2Adapter {
	return &Evo2Adapter{client: client, baseUrl: strings.TrimRight(baseUrl, "/"), apiKey: apiKey}
}

type Evo2Generation struct {
	Prompt      string  `json:"prompt"`
	Generated   string  `json:"generated"`
	NumTokens   int     `json:"numTokens"`
	Temperature float64 `json:"temperature"`
	Simulated   bool    `json:"simulated,omitempty"`
}

func (a *Evo2Adapter) Generate(ctx context.Context, sequence string, numTokens int, temperature float64) (*Evo2Generation, error) {
	sequence = strings.ToUpper(strings.TrimSpace(sequence))
	if sequence == "" {
		return nil, errors.NewInvalidParams("sequence must not be empty")
	}
	for i := 0; i < len(sequence); i++ {
		switch sequence[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return nil, errors.NewInvalidParams(fmt.Sprintf("sequence contains non-nucleotide character %q", sequence[i]))
		}
	}
	if numTokens <= 0 {
		numTokens = 100
	}
	if temperature <= 0 {
		temperature = 0.7
	}

	if a.apiKey == "" {
		return &Evo2Generation{
			Prompt:      sequence,
			Generated:   simulateBases(sequence, numTokens),
			NumTokens:   numTokens,
			Temperature: temperature,
			Simulated:   true,
		}, nil
	}

	payload := map[string]interface{}{
		"sequence":    sequence,
		"num_tokens":  numTokens,
		"temperature": temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + a.apiKey}
	parsed, err := a.client.PostJson(ctx, a.baseUrl+"/generate", payload, headers)
	if err != nil {
		return nil, err
	}
	generated := stringAt(parsed, "sequence")
	if generated == "" {
		return nil, errors.NewUpstream("Evo2 returned no sequence")
	}
	return &Evo2Generation{
		Prompt:      sequence,
		Generated:   generated,
		NumTokens:   numTokens,
		Temperature: temperature,
	}, nil
}

// simulateBases emits numTokens bases from a generator seeded by the
// prompt, so the same prompt always yields the same continuation.
func simulateBases(sequence string, numTokens int) string {
	hasher := fnv.New64a()
	hasher.Write([]byte(sequence))
	state := hasher.Sum64()

	alphabet := [4]byte{'A', 'C', 'G', 'T'}
	out := make([]byte, numTokens)
	for i := range out {
		state = state*6364136223846793005 + 1442695040888963407
		out[i] = alphabet[(state>>33)&3]
	}
	return string(out)
}
