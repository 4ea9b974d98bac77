// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Canonical header tokens, exactly as they appear in campaign spreadsheets
const (
	FieldLeader             = "LÍDER"
	FieldFirstName          = "NOMBRES"
	FieldLastName           = "APELLIDOS"
	FieldDocument           = "No DE CÉDULA SIN PUNTOS"
	FieldPhone              = "TELÉFONO"
	FieldAddress            = "DIRECCIÓN DE RESIDENCIA"
	FieldNeighborhood       = "BARRIO DE RESIDENCIA"
	FieldMunicipality       = "MUNICIPIO RESIDENCIA"
	FieldDepartment         = "DEPARTAMENTO RESIDENCIA"
	FieldVotingPost         = "PUESTO DE VOTACIÓN"
	FieldVotingPostAddress  = "DIRECCIÓN (Pto de votación)"
	FieldVotingTable        = "MESA"
	FieldVotingDepartment   = "DEPARTAMENTO VOTACIÓN"
	FieldVotingMunicipality = "MUNICIPIO VOTACIÓN"
)

// RowIDKey holds the store row id inside a CanonicalRecord.
// It is the only key allowed besides the canonical fields.
const RowIDKey = "_id"

// UnassignedLeader labels voters without a leader in statistics
const UnassignedLeader = "Sin Asignar"

// Fields is the canonical schema. Order matters: it is the positional
// layout for headerless files and the column order for CSV export.
var Fields = []string{
	FieldLeader,
	FieldFirstName,
	FieldLastName,
	FieldDocument,
	FieldPhone,
	FieldAddress,
	FieldNeighborhood,
	FieldMunicipality,
	FieldDepartment,
	FieldVotingPost,
	FieldVotingPostAddress,
	FieldVotingTable,
	FieldVotingDepartment,
	FieldVotingMunicipality,
}

// EditableFields can be changed through field-level updates.
// Leader, names and identity number are fixed once imported.
var EditableFields = map[string]string{
	FieldPhone:              "phone",
	FieldAddress:            "address",
	FieldNeighborhood:       "neighborhood",
	FieldMunicipality:       "municipality",
	FieldDepartment:         "department",
	FieldVotingPost:         "voting_post",
	FieldVotingPostAddress:  "voting_post_address",
	FieldVotingTable:        "voting_table",
	FieldVotingDepartment:   "voting_department",
	FieldVotingMunicipality: "voting_municipality",
}

// IsCanonical reports whether name is one of the canonical fields
func IsCanonical(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// CanonicalRecord maps every canonical field to a value (possibly empty)
type CanonicalRecord map[string]string

// NewRecord returns a record with every canonical field set to ""
func NewRecord() CanonicalRecord {
	rec := make(CanonicalRecord, len(Fields)+1)
	for _, f := range Fields {
		rec[f] = ""
	}
	return rec
}

// ID returns the store row id, empty for records not yet persisted
func (r CanonicalRecord) ID() string {
	return r[RowIDKey]
}

// Clone returns an independent copy of the record
func (r CanonicalRecord) Clone() CanonicalRecord {
	out := make(CanonicalRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Domain types

type Leader struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Voter is a stored voter row. Nullable attributes are nil when unknown.
type Voter struct {
	ID                 string    `json:"id"`
	LeaderID           *string   `json:"leader_id,omitempty"`
	LeaderName         *string   `json:"leader_name,omitempty"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	DocumentNumber     string    `json:"document_number"`
	Phone              *string   `json:"phone,omitempty"`
	Address            *string   `json:"address,omitempty"`
	Neighborhood       *string   `json:"neighborhood,omitempty"`
	Municipality       *string   `json:"municipality,omitempty"`
	Department         *string   `json:"department,omitempty"`
	VotingPost         *string   `json:"voting_post,omitempty"`
	VotingPostAddress  *string   `json:"voting_post_address,omitempty"`
	VotingTable        *string   `json:"voting_table,omitempty"`
	VotingDepartment   *string   `json:"voting_department,omitempty"`
	VotingMunicipality *string   `json:"voting_municipality,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Record maps a stored voter back onto the canonical field names
func (v Voter) Record() CanonicalRecord {
	rec := NewRecord()
	rec[RowIDKey] = v.ID
	rec[FieldLeader] = deref(v.LeaderName)
	rec[FieldFirstName] = v.FirstName
	rec[FieldLastName] = v.LastName
	rec[FieldDocument] = v.DocumentNumber
	rec[FieldPhone] = deref(v.Phone)
	rec[FieldAddress] = deref(v.Address)
	rec[FieldNeighborhood] = deref(v.Neighborhood)
	rec[FieldMunicipality] = deref(v.Municipality)
	rec[FieldDepartment] = deref(v.Department)
	rec[FieldVotingPost] = deref(v.VotingPost)
	rec[FieldVotingPostAddress] = deref(v.VotingPostAddress)
	rec[FieldVotingTable] = deref(v.VotingTable)
	rec[FieldVotingDepartment] = deref(v.VotingDepartment)
	rec[FieldVotingMunicipality] = deref(v.VotingMunicipality)
	return rec
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// VoterPayload is one row of the bulk voter upsert
type VoterPayload struct {
	LeaderID           *string
	FirstName          string
	LastName           string
	DocumentNumber     string
	Phone              string
	Address            string
	Neighborhood       string
	Municipality       string
	Department         string
	VotingPost         string
	VotingPostAddress  string
	VotingTable        string
	VotingDepartment   string
	VotingMunicipality string
}

// Request types

// field name (canonical) -> new value
type UpdateVoterRequest struct {
	Fields map[string]string `json:"fields"`
}

// Response types

type ImportResponse struct {
	SessionID string            `json:"session_id"`
	State     string            `json:"state"`
	FileName  string            `json:"file_name"`
	Attempt   string            `json:"attempt,omitempty"`
	Records   int               `json:"records"`
	Message   string            `json:"message,omitempty"`
	Missing   []string          `json:"missing,omitempty"`
	Details   []string          `json:"details,omitempty"`
	Preview   []CanonicalRecord `json:"preview,omitempty"`
	Truncated bool              `json:"truncated"`
}

type SaveResponse struct {
	SessionID         string   `json:"session_id"`
	State             string   `json:"state"`
	LeadersUpserted   int      `json:"leaders_upserted"`
	FailedLeaders     []string `json:"failed_leaders,omitempty"`
	VotersSaved       int      `json:"voters_saved"`
	DuplicatesDropped int      `json:"duplicates_dropped"`
	MissingDocument   int      `json:"missing_document"`
	Message           string   `json:"message"`
}

type VoterListResponse struct {
	Total   int               `json:"total"`
	Leaders []string          `json:"leaders"`
	Records []CanonicalRecord `json:"records"`
}

type RefreshResponse struct {
	Total    int       `json:"total"`
	LoadedAt time.Time `json:"loaded_at"`
}

type UpdateVoterResponse struct {
	ID     string          `json:"id"`
	Record CanonicalRecord `json:"record"`
}

// Statistics types

type Stats struct {
	Total             int `json:"total"`
	UniqueLeaders     int `json:"unique_leaders"`
	MissingPhone      int `json:"missing_phone"`
	MissingAddress    int `json:"missing_address"`
	MissingVotingPost int `json:"missing_voting_post"`
}

type LeaderStats struct {
	Name           string `json:"name"`
	VoterCount     int    `json:"voter_count"`
	WithPhone      int    `json:"with_phone"`
	WithAddress    int    `json:"with_address"`
	WithVotingPost int    `json:"with_voting_post"`
}

type MunicipalityCount struct {
	Municipality string `json:"municipality"`
	Count        int    `json:"count"`
}

// IncompleteVoter is a worklist row with the labels of what it lacks
type IncompleteVoter struct {
	Record        CanonicalRecord `json:"record"`
	MissingFields []string        `json:"missing_fields"`
}

type MissingResponse struct {
	Total   int               `json:"total"`
	Leaders []string          `json:"leaders"`
	Voters  []IncompleteVoter `json:"voters"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}
