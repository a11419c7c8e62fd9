package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftgen/internal/project"
)

func transform(t *testing.T, filename, content string) *ParsedFile {
	t.Helper()
	doc, errors := Parse(filename, []byte(content))
	require.Empty(t, errors)
	return Transform(doc, filename, errors)
}

func TestTransform_FeatureName(t *testing.T) {
	pf := transform(t, "login.feature", `Feature: Login
  Scenario: User logs in
    Given a user
`)
	assert.Equal(t, "Login", pf.Name)
	assert.Equal(t, "Login", pf.Folder.Name)
}

func TestTransform_NameFromFilename(t *testing.T) {
	pf := transform(t, "features/mixing_colors.feature", "")
	assert.Equal(t, "mixing_colors", pf.Name)
	assert.Empty(t, pf.Folder.Scenarios)
}

func TestTransform_Tags(t *testing.T) {
	pf := transform(t, "login.feature", `@area:auth
Feature: Login
  @smoke @priority:high
  Scenario: User logs in
    Given a user
`)
	assert.Equal(t, []string{"@area:auth"}, pf.Folder.Tags)
	require.Len(t, pf.Folder.Scenarios, 1)
	assert.Equal(t, []string{"@smoke", "@priority:high"}, pf.Folder.Scenarios[0].Tags)
}

func TestTransform_BackgroundPrepended(t *testing.T) {
	pf := transform(t, "login.feature", `Feature: Login
  Background:
    Given a registered user

  Scenario: User logs in
    When they log in
    Then they see the dashboard
`)
	require.Len(t, pf.Folder.Scenarios, 1)
	steps := pf.Folder.Scenarios[0].Steps
	require.Len(t, steps, 3)
	assert.Equal(t, project.Step{Keyword: "given", Text: "a registered user"}, steps[0])
	assert.Equal(t, "when", steps[1].Keyword)
}

func TestTransform_RulesFlattened(t *testing.T) {
	pf := transform(t, "login.feature", `Feature: Login
  Background:
    Given a site

  Scenario: Browsing
    When they browse

  @auth
  Rule: Users must sign in
    Background:
      Given a registered user

    Scenario: Signing in
      When they sign in

    Scenario: Signing out
      When they sign out
`)
	require.Len(t, pf.Folder.Scenarios, 3)

	browsing := pf.Folder.Scenarios[0]
	assert.Equal(t, "Browsing", browsing.Name)
	assert.Empty(t, browsing.Tags)
	require.Len(t, browsing.Steps, 2)
	assert.Equal(t, "a site", browsing.Steps[0].Text)

	signing := pf.Folder.Scenarios[1]
	assert.Equal(t, "Signing in", signing.Name)
	assert.Equal(t, []string{"@auth"}, signing.Tags)
	require.Len(t, signing.Steps, 3)
	assert.Equal(t, "a site", signing.Steps[0].Text)
	assert.Equal(t, "a registered user", signing.Steps[1].Text)

	out := pf.Folder.Scenarios[2]
	assert.Equal(t, []string{"@auth"}, out.Tags)
	require.Len(t, out.Steps, 3)
	assert.Equal(t, "they sign out", out.Steps[2].Text)
}

func TestTransform_DocStringAndDataTable(t *testing.T) {
	pf := transform(t, "colors.feature", `Feature: Colors
  Scenario: Palette
    Given the palette
      """
      warm
      cold
      """
    And the colors
      | name | hex  |
      | red  | #f00 |
`)
	steps := pf.Folder.Scenarios[0].Steps
	require.Len(t, steps, 2)
	assert.True(t, steps[0].HasDocString)
	assert.Equal(t, "warm\ncold", steps[0].DocString)
	assert.Equal(t, "and", steps[1].Keyword)
	assert.Equal(t, [][]string{{"name", "hex"}, {"red", "#f00"}}, steps[1].DataTable)
}

func TestTransform_ExamplesBecomeRows(t *testing.T) {
	pf := transform(t, "login.feature", `Feature: Login
  Scenario Outline: Login
    Given I login as "<username>"

    Examples: Admins
      | username |
      | root     |
      | admin    |
`)
	sc := pf.Folder.Scenarios[0]
	require.Len(t, sc.Examples, 1)
	ex := sc.Examples[0]
	assert.Equal(t, "Admins", ex.Name)
	assert.Equal(t, []string{"username"}, ex.Header)
	require.Len(t, ex.Rows, 2)
	assert.Equal(t, []string{"admin"}, ex.Rows[1].Values)
	assert.NotEmpty(t, ex.Rows[0].UID)
	assert.NotEmpty(t, sc.UID)
}

func TestTransform_TranslatedKeywords(t *testing.T) {
	pf := transform(t, "connexion.feature", `# language: fr
Fonctionnalité: Connexion
  Scénario: Un utilisateur se connecte
    Soit un utilisateur
    Quand il se connecte
    Alors il voit le tableau de bord
    Et il est content
`)
	var keywords []string
	for _, st := range pf.Folder.Scenarios[0].Steps {
		keywords = append(keywords, st.Keyword)
	}
	assert.Equal(t, []string{"given", "when", "then", "and"}, keywords)
}
