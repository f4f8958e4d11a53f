package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Personality represents a system prompt preset
type Personality struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	SystemPrompt string  `json:"system_prompt"`
	Model        string  `json:"model,omitempty"`       // Preferred model (optional)
	Temperature  float64 `json:"temperature,omitempty"` // Overrides config when > 0
}

// PersonalityConfig stores all personalities
type PersonalityConfig struct {
	Personalities      []Personality `json:"personalities"`
	DefaultPersonality string        `json:"default_personality,omitempty"`
}

// DefaultPersonalities returns pre-configured personalities
func DefaultPersonalities() []Personality {
	return []Personality{
		{
			Name:         "default",
			Description:  "Helpful, concise assistant",
			SystemPrompt: "You are a helpful, concise assistant.",
		},
		{
			Name:        "writer",
			Description: "Creative writing assistant",
			SystemPrompt: `You are a creative writing assistant. Your goal is to:
- Help with creative writing, storytelling, and content creation
- Provide suggestions that enhance narrative flow
- Maintain consistent tone and style
- Offer multiple alternatives when asked
- Be concise but evocative in descriptions`,
		},
		{
			Name:        "analyst",
			Description: "Data and business analyst",
			SystemPrompt: `You are a data and business analyst. You should:
- Analyze information methodically
- Present findings in structured formats
- Use data to support conclusions
- Consider multiple perspectives
- Highlight key insights and actionable recommendations`,
		},
		{
			Name:        "teacher",
			Description: "Patient educational assistant",
			SystemPrompt: `You are a patient and thorough teacher. When explaining:
- Break down complex topics into simple parts
- Use analogies and examples
- Check understanding progressively
- Encourage questions
- Adapt explanations to the learner's level`,
		},
	}
}

// GetPersonalitiesPath returns the path to the personalities file
func GetPersonalitiesPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "personalities.json"), nil
}

// LoadPersonalities loads the personality configuration
func LoadPersonalities() (*PersonalityConfig, error) {
	path, err := GetPersonalitiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if file doesn't exist
			return &PersonalityConfig{
				Personalities:      DefaultPersonalities(),
				DefaultPersonality: "default",
			}, nil
		}
		return nil, fmt.Errorf("failed to read personalities: %w", err)
	}

	var config PersonalityConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse personalities: %w", err)
	}

	// Merge with defaults (keep user customizations)
	config.Personalities = mergePersonalities(DefaultPersonalities(), config.Personalities)

	return &config, nil
}

// SavePersonalities saves the personality configuration
func SavePersonalities(config *PersonalityConfig) error {
	path, err := GetPersonalitiesPath()
	if err != nil {
		return err
	}

	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal personalities: %w", err)
	}

	// 0o600: system prompts are user data
	return os.WriteFile(path, data, 0o600)
}

// GetPersonality returns a personality by name
func GetPersonality(name string) (*Personality, error) {
	config, err := LoadPersonalities()
	if err != nil {
		return nil, err
	}

	for _, p := range config.Personalities {
		if p.Name == name {
			return &p, nil
		}
	}

	return nil, fmt.Errorf("personality '%s' not found", name)
}

// ListPersonalityNames returns the names of all personalities
func ListPersonalityNames() ([]string, error) {
	config, err := LoadPersonalities()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(config.Personalities))
	for i, p := range config.Personalities {
		names[i] = p.Name
	}
	return names, nil
}

// AddPersonality adds a new personality
func AddPersonality(personality Personality) error {
	if err := ValidatePersonality(personality); err != nil {
		return err
	}

	config, err := LoadPersonalities()
	if err != nil {
		return err
	}

	for _, p := range config.Personalities {
		if p.Name == personality.Name {
			return fmt.Errorf("personality '%s' already exists", personality.Name)
		}
	}

	config.Personalities = append(config.Personalities, personality)
	return SavePersonalities(config)
}

// UpdatePersonality updates an existing personality
func UpdatePersonality(personality Personality) error {
	if err := ValidatePersonality(personality); err != nil {
		return err
	}

	config, err := LoadPersonalities()
	if err != nil {
		return err
	}

	found := false
	for i, p := range config.Personalities {
		if p.Name == personality.Name {
			config.Personalities[i] = personality
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("personality '%s' not found", personality.Name)
	}

	return SavePersonalities(config)
}

// DeletePersonality removes a personality by name
func DeletePersonality(name string) error {
	if name == "default" {
		return fmt.Errorf("cannot delete the default personality")
	}

	config, err := LoadPersonalities()
	if err != nil {
		return err
	}

	newPersonalities := make([]Personality, 0, len(config.Personalities))
	found := false
	for _, p := range config.Personalities {
		if p.Name == name {
			found = true
			continue
		}
		newPersonalities = append(newPersonalities, p)
	}

	if !found {
		return fmt.Errorf("personality '%s' not found", name)
	}

	config.Personalities = newPersonalities

	// Reset default if deleted
	if config.DefaultPersonality == name {
		config.DefaultPersonality = "default"
	}

	return SavePersonalities(config)
}

// SetDefaultPersonality sets the default personality
func SetDefaultPersonality(name string) error {
	// Verify personality exists
	_, err := GetPersonality(name)
	if err != nil {
		return err
	}

	config, err := LoadPersonalities()
	if err != nil {
		return err
	}

	config.DefaultPersonality = name
	return SavePersonalities(config)
}

// GetDefaultPersonality returns the default personality
func GetDefaultPersonality() (*Personality, error) {
	config, err := LoadPersonalities()
	if err != nil {
		return nil, err
	}

	name := config.DefaultPersonality
	if name == "" {
		name = "default"
	}

	return GetPersonality(name)
}

func mergePersonalities(defaults, custom []Personality) []Personality {
	result := make([]Personality, len(defaults))
	copy(result, defaults)

	// Add or replace with custom
	for _, cp := range custom {
		found := false
		for i, dp := range result {
			if dp.Name == cp.Name {
				result[i] = cp
				found = true
				break
			}
		}
		if !found {
			result = append(result, cp)
		}
	}

	return result
}

// Validation constants
const (
	MaxNameLength        = 50
	MaxDescriptionLength = 200
	MaxPromptLength      = 32 * 1024 // 32KB
	MinNameLength        = 1
)

// ValidatePersonality validates a personality's fields
func ValidatePersonality(p Personality) error {
	fieldErrors := make(map[string]string)

	// Validate name
	if p.Name == "" {
		fieldErrors["name"] = "name is required"
	} else if len(p.Name) > MaxNameLength {
		fieldErrors["name"] = fmt.Sprintf("name too long (max %d characters)", MaxNameLength)
	} else if !isValidPersonalityName(p.Name) {
		fieldErrors["name"] = "name must contain only alphanumeric characters, underscores, and hyphens"
	}

	// Validate description (optional but has max length)
	if len(p.Description) > MaxDescriptionLength {
		fieldErrors["description"] = fmt.Sprintf("description too long (max %d characters)", MaxDescriptionLength)
	}

	// Validate system prompt
	if len(p.SystemPrompt) > MaxPromptLength {
		fieldErrors["system_prompt"] = fmt.Sprintf("system prompt too long (max %d characters)", MaxPromptLength)
	}

	if len(fieldErrors) > 0 {
		return fmt.Errorf("validation failed: %v", fieldErrors)
	}

	return nil
}

// isValidPersonalityName checks if a name contains only valid characters
func isValidPersonalityName(name string) bool {
	if name == "default" {
		return true
	}
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return false
		}
	}
	return true
}
