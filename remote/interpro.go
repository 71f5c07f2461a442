package remote

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	errorKind "genoscope/models/constants/error-kind"
	"genoscope/models/dtos/errors"

	"github.com/go-co-op/gocron"
)

const (
	interProPollInterval = 10 * time.Second
	interProOverallLimit = 5 * time.Minute
)

// InterProAdapter submits protein sequences to the EBI InterProScan
// service and polls until the job settles. When the service is
// unreachable it falls back to a deterministic simulated analysis so
// the tool stays usable offline.
type InterProAdapter struct {
	client       *Client
	baseUrl      string
	email        string
	pollInterval time.Duration
	overallLimit time.Duration
}

func NewInterProAdapter(client *Client, baseUrl, email string) *InterProAdapter {
	return &InterProAdapter{
		client:       client,
		baseUrl:      strings.TrimRight(baseUrl, "/"),
		email:        email,
		pollInterval: interProPollInterval,
		overallLimit: interProOverallLimit,
	}
}

type InterProMatch struct {
	Accession string   `json:"accession"`
	Name      string   `json:"name,omitempty"`
	Database  string   `json:"database,omitempty"`
	Start     int      `json:"start"`
	End       int      `json:"end"`
	Score     float64  `json:"score,omitempty"`
	GoTerms   []string `json:"goTerms,omitempty"`
}

type InterProResult struct {
	JobId     string          `json:"jobId,omitempty"`
	Status    string          `json:"status"`
	Matches   []InterProMatch `json:"matches"`
	Simulated bool            `json:"simulated,omitempty"`
}

func (a *InterProAdapter) Analyze(ctx context.Context, sequence string, goTerms, pathways bool) (*InterProResult, error) {
	sequence = strings.ToUpper(strings.TrimSpace(sequence))
	if sequence == "" {
		return nil, errors.NewInvalidParams("sequence must not be empty")
	}

	jobId, err := a.submit(ctx, sequence, goTerms, pathways)
	if err != nil {
		// Offline fallback only when the service itself is out of
		// reach; bad input still fails.
		if errors.KindOf(err) == errorKind.Unavailable {
			return simulateInterPro(sequence), nil
		}
		return nil, err
	}

	status, err := a.waitForJob(ctx, jobId)
	if err != nil {
		return nil, err
	}
	if status != "FINISHED" {
		return nil, errors.NewUpstream(fmt.Sprintf("InterProScan job %s ended in state %s", jobId, status))
	}

	matches, err := a.fetchMatches(ctx, jobId)
	if err != nil {
		return nil, err
	}
	return &InterProResult{JobId: jobId, Status: status, Matches: matches}, nil
}

func (a *InterProAdapter) submit(ctx context.Context, sequence string, goTerms, pathways bool) (string, error) {
	values := url.Values{}
	values.Set("email", a.email)
	values.Set("sequence", sequence)
	values.Set("goterms", fmt.Sprintf("%t", goTerms))
	values.Set("pathways", fmt.Sprintf("%t", pathways))

	jobId, err := a.client.PostForm(ctx, a.baseUrl+"/run", values)
	if err != nil {
		return "", err
	}
	jobId = strings.TrimSpace(jobId)
	if jobId == "" {
		return "", errors.NewUpstream("InterProScan returned an empty job id")
	}
	return jobId, nil
}

// waitForJob polls the job status on a scheduler until it leaves
// RUNNING, the overall limit passes, or ctx is done.
func (a *InterProAdapter) waitForJob(ctx context.Context, jobId string) (string, error) {
	type poll struct {
		status string
		err    error
	}
	settled := make(chan poll, 1)

	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(a.pollInterval).Do(func() {
		status, pollErr := a.client.GetText(ctx, fmt.Sprintf("%s/status/%s", a.baseUrl, jobId))
		if pollErr != nil {
			select {
			case settled <- poll{err: pollErr}:
			default:
			}
			return
		}
		status = strings.TrimSpace(status)
		if status != "RUNNING" && status != "QUEUED" && status != "PENDING" {
			select {
			case settled <- poll{status: status}:
			default:
			}
		}
	})
	if err != nil {
		return "", errors.NewInternal(fmt.Sprintf("scheduling status polls: %s", err))
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	select {
	case result := <-settled:
		return result.status, result.err
	case <-time.After(a.overallLimit):
		return "", errors.NewTimeout(fmt.Sprintf("InterProScan job %s still running after %s", jobId, a.overallLimit))
	case <-ctx.Done():
		return "", errors.NewTimeout(fmt.Sprintf("InterProScan job %s abandoned: %s", jobId, ctx.Err()))
	}
}

func (a *InterProAdapter) fetchMatches(ctx context.Context, jobId string) ([]InterProMatch, error) {
	parsed, err := a.client.GetJson(ctx, fmt.Sprintf("%s/result/%s/json", a.baseUrl, jobId), nil)
	if err != nil {
		return nil, err
	}

	var matches []InterProMatch
	results, _ := parsed.Path("results").Children()
	for _, result := range results {
		rawMatches, _ := result.Path("matches").Children()
		for _, rawMatch := range rawMatches {
			match := InterProMatch{
				Accession: stringAt(rawMatch, "signature.accession"),
				Name:      stringAt(rawMatch, "signature.name"),
				Database:  stringAt(rawMatch, "signature.signatureLibraryRelease.library"),
				Score:     floatAt(rawMatch, "score"),
			}
			if locations, _ := rawMatch.Path("locations").Children(); len(locations) > 0 {
				match.Start = int(floatAt(locations[0], "start"))
				match.End = int(floatAt(locations[0], "end"))
			}
			goXRefs, _ := rawMatch.Path("signature.entry.goXRefs").Children()
			for _, xref := range goXRefs {
				if id := stringAt(xref, "id"); id != "" {
					match.GoTerms = append(match.GoTerms, id)
				}
			}
			matches = append(matches, match)
		}
	}
	return matches, nil
}

// simulateInterPro produces a stable placeholder analysis keyed off
// the sequence content alone.
func simulateInterPro(sequence string) *InterProResult {
	length := len(sequence)
	domainEnd := length
	if domainEnd > 120 {
		domainEnd = 120
	}
	matches := []InterProMatch{
		{
			Accession: "SIM00001",
			Name:      "Simulated globular domain",
			Database:  "SIMULATED",
			Start:     1,
			End:       domainEnd,
		},
	}
	if length > 200 {
		matches = append(matches, InterProMatch{
			Accession: "SIM00002",
			Name:      "Simulated C-terminal region",
			Database:  "SIMULATED",
			Start:     length - 80 + 1,
			End:       length,
		})
	}
	return &InterProResult{Status: "SIMULATED", Matches: matches, Simulated: true}
}
