// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/voter-roster/models"
	"github.com/danielhkuo/voter-roster/roster"
	"github.com/danielhkuo/voter-roster/testutil"
)

func statsStore(t *testing.T) *StatsHandler {
	t.Helper()
	store := testutil.SetupTestStore(t)

	noPhone := testutil.TestRecord("Juan", "Luis", "Gómez", "1002")
	noPhone[models.FieldPhone] = ""
	bello := testutil.TestRecord("", "Eva", "Ruiz", "1003")
	bello[models.FieldVotingMunicipality] = "Bello"
	bello[models.FieldVotingPost] = ""

	testutil.SeedVoters(t, store,
		testutil.TestRecord("Juan", "Ana", "Pérez", "1001"),
		noPhone,
		bello,
		testutil.TestRecord("María", "Sol", "Mora", "1004"),
	)
	return NewStatsHandler(roster.New(store, 0))
}

func TestStatsSummary(t *testing.T) {
	h := statsStore(t)

	w := httptest.NewRecorder()
	h.Summary(w, httptest.NewRequest("GET", "/stats", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.Stats
	testutil.AssertJSON(t, w, &resp)

	want := models.Stats{Total: 4, UniqueLeaders: 2, MissingPhone: 1, MissingAddress: 0, MissingVotingPost: 1}
	if resp != want {
		t.Errorf("Expected %+v, got %+v", want, resp)
	}
}

func TestStatsLeaders(t *testing.T) {
	h := statsStore(t)

	w := httptest.NewRecorder()
	h.Leaders(w, httptest.NewRequest("GET", "/stats/leaders", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp []models.LeaderStats
	testutil.AssertJSON(t, w, &resp)

	if len(resp) != 3 {
		t.Fatalf("Expected 3 leader groups, got %d", len(resp))
	}
	want := models.LeaderStats{Name: "Juan", VoterCount: 2, WithPhone: 1, WithAddress: 2, WithVotingPost: 2}
	if resp[0] != want {
		t.Errorf("Expected %+v first, got %+v", want, resp[0])
	}
	if resp[1].Name != "María" || resp[2].Name != models.UnassignedLeader {
		t.Errorf("Expected María then %s, got %s then %s", models.UnassignedLeader, resp[1].Name, resp[2].Name)
	}
}

func TestStatsMunicipalities(t *testing.T) {
	h := statsStore(t)

	w := httptest.NewRecorder()
	h.Municipalities(w, httptest.NewRequest("GET", "/stats/municipalities", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp []models.MunicipalityCount
	testutil.AssertJSON(t, w, &resp)

	want := []models.MunicipalityCount{{Municipality: "Medellín", Count: 3}, {Municipality: "Bello", Count: 1}}
	if len(resp) != len(want) || resp[0] != want[0] || resp[1] != want[1] {
		t.Errorf("Expected %v, got %v", want, resp)
	}
}
