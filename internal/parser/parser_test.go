package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleScenario(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user
    When  they log in
    Then  they see the dashboard
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	require.NotNil(t, doc.Feature)
	assert.Equal(t, "login.feature", doc.Uri)
	assert.Equal(t, "Login", doc.Feature.Name)
	require.Len(t, doc.Feature.Children, 1)
	sc := doc.Feature.Children[0].Scenario
	require.NotNil(t, sc)
	assert.Equal(t, "User logs in", sc.Name)
	assert.Equal(t, int64(2), sc.Location.Line)
	assert.Len(t, sc.Steps, 3)
}

func TestParse_MultipleScenarios(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user

  Scenario: User fails login
    Given a user
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Children, 2)
	assert.Equal(t, "User logs in", doc.Feature.Children[0].Scenario.Name)
	assert.Equal(t, "User fails login", doc.Feature.Children[1].Scenario.Name)
}

func TestParse_EmptyFile(t *testing.T) {
	doc, errors := Parse("empty.feature", []byte(""))
	require.Empty(t, errors)
	require.NotNil(t, doc)
	assert.Nil(t, doc.Feature)
}

func TestParse_SyntaxErrorIsLocated(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user
  this line is not gherkin
    | a |
  Examples:
`)
	_, errors := Parse("login.feature", content)
	require.NotEmpty(t, errors)
	assert.Greater(t, errors[0].Line, 0)
	assert.NotEmpty(t, errors[0].Message)
	assert.Contains(t, errors[0].Error(), "line ")
}

func TestParse_OtherLanguage(t *testing.T) {
	content := []byte(`# language: fr
Fonctionnalité: Connexion
  Scénario: Un utilisateur se connecte
    Soit un utilisateur
    Quand il se connecte
`)
	doc, errors := Parse("connexion.feature", content)
	require.Empty(t, errors)
	assert.Equal(t, "Connexion", doc.Feature.Name)
}
