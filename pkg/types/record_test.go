package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		Kind: RecordCropEvaluation,
		Columns: []Column{
			{Key: "crop", Label: "Crop", Kind: KindSelect, Options: []string{"Banana", "Pineapple"}, Editable: true},
			{Key: "parcel", Label: "Parcel", Kind: KindText, Editable: true},
			{Key: "evaluated_on", Label: "Evaluated on", Kind: KindDate, Editable: true},
			{Key: "yield", Label: "Yield (%)", Kind: KindNumber, Editable: true},
			{Key: "health", Label: "Health", Kind: KindSelect, Options: []string{"Good", "Poor"}, Editable: true, Default: Select("Good")},
			{Key: "organic", Label: "Organic", Kind: KindBoolean, Editable: true},
		},
	}
}

func TestRecordWithLeavesReceiverUntouched(t *testing.T) {
	r := Record{ID: "1", Fields: map[string]Value{"parcel": Text("North"), "yield": Number(70)}}

	updated := r.With("yield", Number(90))

	assert.Equal(t, Number(70), r.Value("yield"), "receiver must not change")
	assert.Equal(t, Number(90), updated.Value("yield"))
	assert.Equal(t, Text("North"), updated.Value("parcel"))
	assert.Equal(t, r.ID, updated.ID)
}

func TestRecordValueMissingKey(t *testing.T) {
	r := Record{ID: "1", Fields: map[string]Value{}}
	assert.True(t, r.Value("anything").IsZero())
	assert.False(t, r.Has("anything"))
}

func TestRecordMarshalJSON(t *testing.T) {
	r := Record{ID: "abc", Fields: map[string]Value{"crop": Select("Banana"), "yield": Number(92)}}
	data, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","crop":"Banana","yield":92}`, string(data))
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSchemaNewRecord(t *testing.T) {
	s := testSchema()

	tests := []struct {
		name    string
		id      string
		fields  map[string]Value
		wantErr error
		check   func(t *testing.T, r Record)
	}{
		{
			name:   "missing keys get defaults",
			id:     "1",
			fields: map[string]Value{"crop": Select("Banana")},
			check: func(t *testing.T, r Record) {
				assert.Equal(t, Select("Banana"), r.Value("crop"))
				assert.Equal(t, Text(""), r.Value("parcel"))
				assert.Equal(t, Number(0), r.Value("yield"))
				assert.Equal(t, Select("Good"), r.Value("health"), "declared default wins over zero value")
				assert.Equal(t, Bool(false), r.Value("organic"))
				assert.Equal(t, RecordCropEvaluation, r.Kind)
			},
		},
		{
			name:   "schema-absent keys are kept",
			id:     "2",
			fields: map[string]Value{"data_source": Text("Survey")},
			check: func(t *testing.T, r Record) {
				assert.Equal(t, Text("Survey"), r.Value("data_source"))
				for _, k := range s.Keys() {
					assert.True(t, r.Has(k), k)
				}
			},
		},
		{
			name:    "empty id rejected",
			id:      "",
			wantErr: ErrInvalidID,
		},
		{
			name:    "kind mismatch rejected",
			id:      "3",
			fields:  map[string]Value{"yield": Text("high")},
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "unknown option rejected",
			id:      "4",
			fields:  map[string]Value{"crop": Select("Coffee")},
			wantErr: ErrInvalidOption,
		},
		{
			name:    "malformed date rejected",
			id:      "5",
			fields:  map[string]Value{"evaluated_on": Date("15/01/2024")},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := s.NewRecord(tt.id, tt.fields)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestSchemaCoerce(t *testing.T) {
	s := testSchema()

	tests := []struct {
		name    string
		key     string
		raw     any
		want    Value
		wantErr error
	}{
		{name: "yaml int to number", key: "yield", raw: 85, want: Number(85)},
		{name: "float to number", key: "yield", raw: 6.8, want: Number(6.8)},
		{name: "numeric string to number", key: "yield", raw: "42.5", want: Number(42.5)},
		{name: "bool", key: "organic", raw: true, want: Bool(true)},
		{name: "bool string", key: "organic", raw: "false", want: Bool(false)},
		{name: "time to date", key: "evaluated_on", raw: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), want: Date("2024-01-15")},
		{name: "string to select", key: "crop", raw: "Pineapple", want: Select("Pineapple")},
		{name: "nil gives default", key: "health", raw: nil, want: Select("Good")},
		{name: "bool into number rejected", key: "yield", raw: true, wantErr: ErrTypeMismatch},
		{name: "garbage number rejected", key: "yield", raw: "lots", wantErr: ErrTypeMismatch},
		{name: "unknown key rejected", key: "nope", raw: "x", wantErr: ErrFieldNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Coerce(tt.key, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchemaNewRecordFromRawDropsUnknownKeys(t *testing.T) {
	r, err := testSchema().NewRecordFromRaw("7", map[string]any{
		"crop":   "Banana",
		"yield":  92,
		"colour": "green",
	})
	require.NoError(t, err)
	assert.Equal(t, Number(92), r.Value("yield"))
	assert.False(t, r.Has("colour"))
}

func TestSchemaCheckIntegerColumn(t *testing.T) {
	s := Schema{Kind: RecordProject, Columns: []Column{
		{Key: "beneficiaries", Label: "Beneficiaries", Kind: KindNumber, Editable: true, Integer: true},
		{Key: "budget", Label: "Budget", Kind: KindNumber, Editable: true},
	}}

	assert.NoError(t, s.Check("beneficiaries", Number(120)))
	assert.NoError(t, s.Check("beneficiaries", Number(-3)))
	assert.ErrorIs(t, s.Check("beneficiaries", Number(120.7)), ErrTypeMismatch)
	assert.NoError(t, s.Check("budget", Number(120.7)))

	_, err := s.Parse("beneficiaries", "12.5")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	v, err := s.Parse("beneficiaries", "12")
	require.NoError(t, err)
	assert.Equal(t, Number(12), v)
}
