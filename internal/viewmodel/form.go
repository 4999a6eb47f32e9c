package viewmodel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/medetbek/moviedb/internal/models"
)

// FormMode distinguishes the create workflow, where every image must be
// a fresh upload, from the edit workflow, where stored paths may be
// kept.
type FormMode int

const (
	CreateMode FormMode = iota
	EditMode
)

// FileUpload is a file chosen in the form but not yet sent to the
// backend.
type FileUpload struct {
	Filename string
	Data     []byte
}

// ImageRef is either an existing backend path or a pending upload,
// resolved explicitly at submission time.
type ImageRef struct {
	Path   string
	Upload *FileUpload
}

// HasUpload reports whether a new file was chosen.
func (i ImageRef) HasUpload() bool {
	return i.Upload != nil
}

// Empty reports an image with neither a stored path nor a new file.
func (i ImageRef) Empty() bool {
	return i.Path == "" && i.Upload == nil
}

// ActorField is one row of the dynamic actor list.
type ActorField struct {
	Name  string `validate:"required"`
	Image ImageRef
}

// MovieForm holds the editable fields of a movie across the create and
// edit workflows.
type MovieForm struct {
	ID          string
	Title       string       `validate:"required"`
	AgeRating   string       `validate:"required,oneof=G PG PG-13 R NC-17"`
	Producer    string       `validate:"required"`
	Story       string       `validate:"required,min=50,max=500"`
	Duration    string       `validate:"required,movieduration"`
	Rating      float64      `validate:"gte=0,lte=10"`
	ReleaseYear int
	Views       *int64
	Poster      ImageRef
	Actors      []ActorField `validate:"min=1,dive"`
}

// NewMovieForm returns a create form with its defaults: one empty actor
// row, a middling rating, and the current year.
func NewMovieForm() MovieForm {
	return MovieForm{
		Rating:      5.0,
		ReleaseYear: time.Now().Year(),
		Actors:      []ActorField{{}},
	}
}

// FormFromMovie pre-populates an edit form from a fetched record.
func FormFromMovie(m models.Movie) MovieForm {
	actors := make([]ActorField, 0, len(m.Actors))
	for _, a := range m.Actors {
		actors = append(actors, ActorField{
			Name:  a.Name,
			Image: ImageRef{Path: a.Image},
		})
	}
	return MovieForm{
		ID:          m.ID,
		Title:       m.Title,
		AgeRating:   string(m.AgeRating),
		Producer:    m.Producer,
		Story:       m.Story,
		Duration:    m.Duration,
		Rating:      m.Rating,
		ReleaseYear: m.ReleaseYear,
		Views:       m.Views,
		Poster:      ImageRef{Path: m.Poster},
		Actors:      actors,
	}
}

// AddActor appends an empty actor row.
func (f *MovieForm) AddActor() {
	f.Actors = append(f.Actors, ActorField{})
}

// RemoveActor drops the row at index. The last remaining row can never
// be removed, the form always shows at least one actor.
func (f *MovieForm) RemoveActor(index int) {
	if len(f.Actors) <= 1 || index < 0 || index >= len(f.Actors) {
		return
	}
	f.Actors = append(f.Actors[:index], f.Actors[index+1:]...)
}

// FieldErrors maps a field name to its inline validation message.
type FieldErrors map[string]string

// FormValidator checks a MovieForm against the catalog's field rules.
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator creates a new form validator
func NewFormValidator() *FormValidator {
	v := validator.New()
	// The error is only non-nil for an empty tag name.
	_ = v.RegisterValidation("movieduration", func(fl validator.FieldLevel) bool {
		return models.ValidDuration(fl.Field().String())
	})
	return &FormValidator{validate: v}
}

// Validate returns one message per offending field. An empty map means
// the form may be submitted.
func (fv *FormValidator) Validate(form MovieForm, mode FormMode) FieldErrors {
	errs := FieldErrors{}

	if err := fv.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				field, msg := fieldMessage(fe)
				if _, seen := errs[field]; !seen {
					errs[field] = msg
				}
			}
		} else {
			errs["form"] = "Invalid form input"
		}
	}

	// Rules the tags cannot express.
	if frac := form.Rating * 10; math.Abs(frac-math.Round(frac)) > 1e-9 {
		errs["rating"] = "Rating must have at most 1 decimal place"
	}
	if form.ReleaseYear < models.MinReleaseYear {
		errs["releaseYear"] = fmt.Sprintf("Release year must be %d or later", models.MinReleaseYear)
	} else if form.ReleaseYear > models.MaxReleaseYear() {
		errs["releaseYear"] = "Release year cannot be too far in the future"
	}

	if mode == CreateMode {
		if !form.Poster.HasUpload() {
			errs["poster"] = "Poster is required"
		}
		for i, actor := range form.Actors {
			if !actor.Image.HasUpload() {
				errs[actorImageField(i)] = "Actor image is required"
			}
		}
	}

	return errs
}

func actorImageField(i int) string {
	return fmt.Sprintf("actors.%d.image", i)
}

func fieldMessage(fe validator.FieldError) (string, string) {
	switch fe.Field() {
	case "Title":
		return "title", "Title is required"
	case "AgeRating":
		return "ageRating", "Please select an age rating"
	case "Producer":
		return "producer", "Producer is required"
	case "Story":
		switch fe.Tag() {
		case "min":
			return "story", "Story must be at least 50 characters"
		case "max":
			return "story", "Story must not exceed 500 characters"
		}
		return "story", "Story is required"
	case "Duration":
		return "duration", "Duration must be in format: 2h 30min"
	case "Rating":
		if fe.Tag() == "gte" {
			return "rating", "Rating must be at least 0"
		}
		return "rating", "Rating must not exceed 10"
	case "Actors":
		return "actors", "At least one actor is required"
	case "Name":
		// Nested actor name, namespace is Actors[i].Name
		return actorNameField(fe.Namespace()), "Actor name is required"
	}
	return fe.Field(), "Invalid value"
}

func actorNameField(namespace string) string {
	// MovieForm.Actors[3].Name -> actors.3.name
	var index int
	if _, err := fmt.Sscanf(namespace, "MovieForm.Actors[%d].Name", &index); err == nil {
		return fmt.Sprintf("actors.%d.name", index)
	}
	return "actors"
}

// payloadActor mirrors the actor shape of the movieData JSON part. On
// create only the name travels; on edit the image field carries the
// kept path, or nothing when a new file replaces it.
type payloadActor struct {
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

// moviePayload is the JSON description packed into the movieData part.
// Raw file contents never appear here; the poster and fresh actor
// images travel as sibling multipart file parts.
type moviePayload struct {
	Title       string         `json:"title"`
	AgeRating   string         `json:"ageRating"`
	Producer    string         `json:"producer"`
	Story       string         `json:"story"`
	Duration    string         `json:"duration"`
	Rating      float64        `json:"rating"`
	Views       *int64         `json:"views,omitempty"`
	ReleaseYear int            `json:"releaseYear"`
	Actors      []payloadActor `json:"actors"`
}

// Payload is an assembled multipart submission body.
type Payload struct {
	ContentType string
	Body        []byte
}

// BuildPayload assembles the multipart submission: the movieData JSON
// part, the poster file when newly chosen, and one actorImages part per
// fresh actor image, in actor order so the backend can correlate part
// position to actor index. Kept image paths travel only inside the
// JSON.
func BuildPayload(form MovieForm, mode FormMode) (*Payload, error) {
	actors := make([]payloadActor, 0, len(form.Actors))
	for _, actor := range form.Actors {
		pa := payloadActor{Name: actor.Name}
		if mode == EditMode && !actor.Image.HasUpload() {
			path := actor.Image.Path
			pa.Image = &path
		}
		actors = append(actors, pa)
	}

	data, err := json.Marshal(moviePayload{
		Title:       form.Title,
		AgeRating:   form.AgeRating,
		Producer:    form.Producer,
		Story:       form.Story,
		Duration:    form.Duration,
		Rating:      form.Rating,
		Views:       form.Views,
		ReleaseYear: form.ReleaseYear,
		Actors:      actors,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal movie data: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("movieData", string(data)); err != nil {
		return nil, fmt.Errorf("failed to write movieData part: %w", err)
	}

	if form.Poster.HasUpload() {
		part, err := w.CreateFormFile("poster", form.Poster.Upload.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create poster part: %w", err)
		}
		if _, err := part.Write(form.Poster.Upload.Data); err != nil {
			return nil, fmt.Errorf("failed to write poster part: %w", err)
		}
	}

	for _, actor := range form.Actors {
		if !actor.Image.HasUpload() {
			continue
		}
		part, err := w.CreateFormFile("actorImages", actor.Image.Upload.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create actor image part: %w", err)
		}
		if _, err := part.Write(actor.Image.Upload.Data); err != nil {
			return nil, fmt.Errorf("failed to write actor image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize payload: %w", err)
	}

	return &Payload{ContentType: w.FormDataContentType(), Body: buf.Bytes()}, nil
}
