package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeUnmarshalByKind(t *testing.T) {
	var attr Attribute

	err := json.Unmarshal([]byte(`{"label":"Grade","value":"HDPE","kind":"select","filterEnabled":true}`), &attr)
	require.NoError(t, err)
	assert.Equal(t, KindSelect, attr.Kind)
	assert.Equal(t, "HDPE", attr.Text)
	assert.True(t, attr.FilterEnabled)

	err = json.Unmarshal([]byte(`{"label":"Density","value":0.95,"kind":"number","unit":"g/cm3","filterEnabled":true}`), &attr)
	require.NoError(t, err)
	assert.Equal(t, 0.95, attr.Number)
	assert.Equal(t, "g/cm3", attr.Unit)

	err = json.Unmarshal([]byte(`{"label":"Certs","value":["ISO","RoHS"],"kind":"multiselect","filterEnabled":true}`), &attr)
	require.NoError(t, err)
	assert.Equal(t, []string{"ISO", "RoHS"}, attr.Options)

	err = json.Unmarshal([]byte(`{"label":"Washed","value":true,"kind":"boolean","filterEnabled":false}`), &attr)
	require.NoError(t, err)
	assert.True(t, attr.Flag)
}

func TestAttributeMultiselectAcceptsScalar(t *testing.T) {
	var attr Attribute
	err := json.Unmarshal([]byte(`{"label":"Certs","value":"ISO","kind":"multiselect","filterEnabled":true}`), &attr)
	require.NoError(t, err)
	assert.Equal(t, []string{"ISO"}, attr.Options)
}

func TestAttributeRejectsUnknownKind(t *testing.T) {
	var attr Attribute
	err := json.Unmarshal([]byte(`{"label":"X","value":"y","kind":"fancy","filterEnabled":true}`), &attr)
	assert.Error(t, err)
}

func TestAttributeRejectsMismatchedValue(t *testing.T) {
	var attr Attribute
	err := json.Unmarshal([]byte(`{"label":"Density","value":"heavy","kind":"number","filterEnabled":true}`), &attr)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"label":"Grade","value":null,"kind":"select","filterEnabled":true}`), &attr)
	assert.Error(t, err)
}

func TestAttributeMapScanRoundTrip(t *testing.T) {
	m := AttributeMap{
		"grade": {Label: "Grade", Kind: KindSelect, Text: "HDPE", FilterEnabled: true},
	}

	raw, err := m.Value()
	require.NoError(t, err)

	var scanned AttributeMap
	require.NoError(t, scanned.Scan(raw))
	assert.Equal(t, "HDPE", scanned["grade"].Text)
	assert.Equal(t, KindSelect, scanned["grade"].Kind)
}
