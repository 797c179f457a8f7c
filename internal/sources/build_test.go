package sources

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

func TestBuildAdaptersArmsMockWhenProbesFail(t *testing.T) {
	reg := &Registry{
		Senate:    SenateConfig{BaseURL: "https://lda.test/api/v1"}, // no key: config_error
		NYC:       nycConfig(),
		Checkbook: checkbookConfig(),
		HTTP:      testHTTPConfig(),
	}

	adapters := BuildAdapters(context.Background(), reg, BuildOptions{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("connection refused")
		}),
	})

	for _, key := range []SourceKey{SourceNYC, SourceCheckbook} {
		results, _, _, err := adapters[key].Search(context.Background(), "acme", SearchVendor, Filters{}, 1, 5)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if len(results) == 0 || !results[0].Meta.IsMock {
			t.Errorf("%s: failed probe should arm mock data", key)
		}
	}

	// The federal adapter serves mock details.
	filing, err := adapters[SourceSenate].GetFilingDetail(context.Background(), "some-id")
	if err != nil || !filing.Meta.IsMock {
		t.Errorf("senate detail = %+v, %v", filing, err)
	}
}

func TestBuildAdaptersForceMock(t *testing.T) {
	reg := &Registry{
		Senate:    senateConfig(),
		NYC:       nycConfig(),
		Checkbook: checkbookConfig(),
		HTTP:      testHTTPConfig(),
	}

	adapters := BuildAdapters(context.Background(), reg, BuildOptions{
		ForceMock: true,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			t.Error("forced mock must not probe the network")
			return nil, fmt.Errorf("unreachable")
		}),
	})
	if len(adapters) != 3 {
		t.Fatalf("adapters = %d", len(adapters))
	}

	results, _, _, err := adapters[SourceNYC].Search(context.Background(), "acme", SearchClient, Filters{}, 1, 5)
	if err != nil || len(results) == 0 || !results[0].Meta.IsMock {
		t.Errorf("forced mock search = %d results, %v", len(results), err)
	}
}
