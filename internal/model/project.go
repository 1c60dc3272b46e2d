package model

import "time"

// Project is a portfolio entry. Description and Category are nullable in the database.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectWithImages is a project plus its images, newest first.
type ProjectWithImages struct {
	Project
	Images []*Image `json:"images"`
}

// ProjectInput carries the editable fields of a project.
type ProjectInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}
