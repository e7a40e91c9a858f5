package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"countries_fetcher/internal/domain"
	"countries_fetcher/internal/service/mocks"
)

func sampleResult() *domain.LoadResult {
	return &domain.LoadResult{
		ID:     "id",
		Origin: domain.OriginCache,
		Countries: []domain.Country{
			{Name: "Chad", Continents: []string{"Africa"}},
			{Name: "Peru", Continents: []string{"South America"}, ISOCode2: "PE"},
			{Name: "Zambia", Continents: []string{"Africa"}},
		},
	}
}

func TestView_ListFiltered(t *testing.T) {
	var buf bytes.Buffer
	v := &view{out: &buf, continent: "Africa"}

	require.NoError(t, v.render(context.Background(), sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "2 countries (Africa)\nChad\nZambia\n")
	assert.NotContains(t, out, "Peru\n")
	assert.Contains(t, out, "Continents: All, Africa, South America\n")
}

func TestView_ListAll(t *testing.T) {
	var buf bytes.Buffer
	v := &view{out: &buf, continent: domain.AllContinents}

	require.NoError(t, v.render(context.Background(), sampleResult()))
	assert.Contains(t, buf.String(), "3 countries (All)\nChad\nPeru\nZambia\n")
}

func TestView_CountryDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	testCases := []struct {
		name    string
		online  bool
		warning bool
	}{
		{"online", true, false},
		{"offline", false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			probe := mocks.NewMockProbe(ctrl)
			probe.EXPECT().Online(ctx).Return(tc.online)

			var buf bytes.Buffer
			v := &view{out: &buf, probe: probe, country: "Peru"}

			require.NoError(t, v.render(ctx, sampleResult()))

			out := buf.String()
			assert.Contains(t, out, "[PE] - Peru")
			assert.Equal(t, tc.warning, bytes.Contains(buf.Bytes(), []byte("No Internet connection!")))
		})
	}
}

func TestView_UnknownCountry(t *testing.T) {
	var buf bytes.Buffer
	v := &view{out: &buf, country: "Atlantis"}

	err := v.render(context.Background(), sampleResult())
	assert.ErrorContains(t, err, "Atlantis")
	assert.Empty(t, buf.String())
}
