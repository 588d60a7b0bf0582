package model

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Game is a catalog entry. Name is unique across live games; Description and
// Attributes are opaque payload passed through by the service.
type Game struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	CreatedOn   time.Time              `json:"created_on"`
	UpdatedOn   time.Time              `json:"updated_on"`
}

// Business constraints
const (
	MaxGameNameLength = 100
	MaxGameDescLength = 2000
)

// Pagination defaults
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	DefaultSortField = "created_on"
)

// CreateGameRequest represents a request to create a game
type CreateGameRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

// Validate checks the create request
func (r *CreateGameRequest) Validate() []FieldError {
	var errors []FieldError
	name := strings.TrimSpace(r.Name)
	if name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if utf8.RuneCountInString(name) > MaxGameNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if utf8.RuneCountInString(r.Description) > MaxGameDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}
	return errors
}

// ToGame builds the game to persist. Name is trimmed; everything else is copied verbatim.
func (r *CreateGameRequest) ToGame() *Game {
	return &Game{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Attributes:  r.Attributes,
	}
}

// UpdateGameRequest represents a partial update; nil fields are left alone
type UpdateGameRequest struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

// Validate checks the update request
func (r *UpdateGameRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			errors = append(errors, FieldError{Field: "name", Message: "name cannot be empty"})
		} else if utf8.RuneCountInString(name) > MaxGameNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
		}
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > MaxGameDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}
	return errors
}

// NewName returns the trimmed requested name, or "" when the name is not being changed
func (r *UpdateGameRequest) NewName() string {
	if r.Name == nil {
		return ""
	}
	return strings.TrimSpace(*r.Name)
}

// ApplyTo copies the set fields onto game. Attributes replace the whole map.
func (r *UpdateGameRequest) ApplyTo(game *Game) {
	if r.Name != nil {
		game.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		game.Description = *r.Description
	}
	if r.Attributes != nil {
		game.Attributes = r.Attributes
	}
}

// GameFilter holds field-value constraints for listing games
type GameFilter struct {
	Name string `json:"name,omitempty"`
}

// QueryOptions holds paging and sorting parameters for listing games.
// SortBy is "field:asc|desc", comma separated for multiple fields.
type QueryOptions struct {
	SortBy string `json:"sortBy,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// Normalize applies default and maximum values to the paging parameters.
// Page is capped so that Offset cannot overflow.
func (o QueryOptions) Normalize() QueryOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultPageLimit
	}
	if o.Limit > MaxPageLimit {
		o.Limit = MaxPageLimit
	}
	if o.Page <= 0 {
		o.Page = 1
	}
	if maxPage := math.MaxInt / o.Limit; o.Page > maxPage {
		o.Page = maxPage
	}
	return o
}

// Offset returns the number of records to skip for the current page
func (o QueryOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// GamePage is the pagination envelope returned by list queries
type GamePage struct {
	Data         []*Game `json:"data"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
	TotalPages   int     `json:"totalPages"`
	TotalResults int     `json:"totalResults"`
}

// NewGamePage builds an envelope, deriving TotalPages from the total and the page size
func NewGamePage(games []*Game, opts QueryOptions, total int) *GamePage {
	if games == nil {
		games = []*Game{}
	}
	totalPages := 0
	if opts.Limit > 0 {
		totalPages = (total + opts.Limit - 1) / opts.Limit
	}
	return &GamePage{
		Data:         games,
		Page:         opts.Page,
		Limit:        opts.Limit,
		TotalPages:   totalPages,
		TotalResults: total,
	}
}

// DeleteResult describes the outcome of a delete
type DeleteResult struct {
	DeletedCount int `json:"deletedCount"`
}
