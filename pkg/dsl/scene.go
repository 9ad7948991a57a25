package dsl

import "github.com/senacirak/DEU-DevClubGames/pkg/domain"

// SceneBuilder provides a fluent API for configuring a scene.
type SceneBuilder struct {
	scene domain.Scene
}

// Title sets the scene heading.
func (s *SceneBuilder) Title(title string) *SceneBuilder {
	s.scene.Title = title
	return s
}

// Content sets the raw narrative text.
func (s *SceneBuilder) Content(content string) *SceneBuilder {
	s.scene.Content = content
	return s
}

// Info sets the character blurb.
func (s *SceneBuilder) Info(text string) *SceneBuilder {
	s.scene.CharacterInfo = text
	return s
}

// Choice adds a choice leading to target.
func (s *SceneBuilder) Choice(text, target string) *SceneBuilder {
	s.scene.Choices = append(s.scene.Choices, domain.Choice{Text: text, NextSceneID: target})
	return s
}

// Inert adds a choice with no target.
func (s *SceneBuilder) Inert(text string) *SceneBuilder {
	s.scene.Choices = append(s.scene.Choices, domain.Choice{Text: text})
	return s
}

// Ending marks the scene as terminal and drops any choices.
func (s *SceneBuilder) Ending() *SceneBuilder {
	s.scene.IsEnding = true
	s.scene.Choices = nil
	return s
}

// Build returns a copy of the underlying domain.Scene.
func (s *SceneBuilder) Build() domain.Scene {
	sc := s.scene
	sc.Choices = append([]domain.Choice(nil), s.scene.Choices...)
	return sc
}
