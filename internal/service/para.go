package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"parakeet/internal/config"
	"parakeet/internal/domain"
	"parakeet/internal/domain/models"
	"parakeet/internal/domain/repositories"
)

type CreateProjectRequest struct {
	Title    string `json:"title"`
	Goal     string `json:"goal"`
	Deadline string `json:"deadline"`
}

func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&r.Goal, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&r.Deadline, validation.Length(0, 100)),
	)
}

type CreateAreaRequest struct {
	Title     string `json:"title"`
	ProjectID *int   `json:"project_id"`
}

func (r CreateAreaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
	)
}

type CreateResourceRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Notes string `json:"notes"`
}

func (r CreateResourceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&r.URL, validation.Length(0, config.MaxResourceURLLength),
			validation.By(httpURLOnly)),
		validation.Field(&r.Notes, validation.Length(0, config.MaxTitleLength)),
	)
}

// httpURLOnly rejects URL schemes other than http and https, keeping
// javascript: and data: URLs out of stored resources.
func httpURLOnly(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return validation.NewError("validation_url_scheme", "URL must start with http:// or https://")
	}
	return nil
}

type CreateTaskRequest struct {
	Title      string `json:"title"`
	Priority   string `json:"priority"`
	ParentType string `json:"parent_type"`
	ParentID   int    `json:"parent_id"`
}

func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&r.Priority, validation.In("high", "medium", "low", "")),
		validation.Field(&r.ParentType, validation.Required, validation.In("project", "area")),
	)
}

type UpdateTaskRequest struct {
	Title      *string `json:"title"`
	Priority   *string `json:"priority"`
	ParentType *string `json:"parent_type"`
	ParentID   *int    `json:"parent_id"`
}

func (r UpdateTaskRequest) Validate() error {
	if r.Title != nil && (*r.Title == "" || len(*r.Title) > config.MaxTitleLength) {
		return validation.NewError("validation_title", "title must be 1 to 500 characters")
	}
	if r.Priority != nil {
		switch *r.Priority {
		case "high", "medium", "low":
		default:
			return validation.NewError("validation_priority", "priority must be high, medium, or low")
		}
	}
	return nil
}

// TaskFilter narrows and orders the task listing.
type TaskFilter struct {
	ParentType string
	ParentID   *int
	Priority   string
	Sort       string
}

// TaskBoard is the task listing payload: tasks plus the live projects and
// areas they hang off, so clients can render parents without extra calls.
type TaskBoard struct {
	Tasks    []models.Task    `json:"tasks"`
	Projects []models.Project `json:"projects"`
	Areas    []models.Area    `json:"areas"`
}

// ParaService is the request/response plumbing over the PARA collections.
type ParaService struct {
	para   repositories.ParaRepository
	logger *slog.Logger
}

// NewParaService creates a PARA service.
func NewParaService(para repositories.ParaRepository, logger *slog.Logger) *ParaService {
	return &ParaService{para: para, logger: logger}
}

func (s *ParaService) ListProjects(ctx context.Context, sortBy string) ([]models.Project, error) {
	projects, err := s.para.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	switch sortBy {
	case "deadline":
		sort.SliceStable(projects, func(i, j int) bool { return projects[i].Deadline < projects[j].Deadline })
	case "title":
		sort.SliceStable(projects, func(i, j int) bool {
			return strings.ToLower(projects[i].Title) < strings.ToLower(projects[j].Title)
		})
	}
	return projects, nil
}

func (s *ParaService) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	return s.para.CreateProject(ctx, models.Project{
		Title:    req.Title,
		Goal:     req.Goal,
		Deadline: req.Deadline,
	})
}

func (s *ParaService) ListAreas(ctx context.Context, sortBy string, projectID *int) ([]models.Area, error) {
	areas, err := s.para.ListAreas(ctx)
	if err != nil {
		return nil, err
	}
	if projectID != nil {
		filtered := areas[:0]
		for _, a := range areas {
			if a.ProjectID != nil && *a.ProjectID == *projectID {
				filtered = append(filtered, a)
			}
		}
		areas = filtered
	}
	if sortBy == "title" {
		sort.SliceStable(areas, func(i, j int) bool {
			return strings.ToLower(areas[i].Title) < strings.ToLower(areas[j].Title)
		})
	}
	return areas, nil
}

func (s *ParaService) CreateArea(ctx context.Context, req CreateAreaRequest) (*models.Area, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	if req.ProjectID != nil {
		exists, err := s.para.Exists(ctx, models.LinkedTypeProject, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &domain.NotFoundError{Message: "project not found"}
		}
	}
	return s.para.CreateArea(ctx, models.Area{Title: req.Title, ProjectID: req.ProjectID})
}

func (s *ParaService) ListResources(ctx context.Context) ([]models.Resource, error) {
	return s.para.ListResources(ctx)
}

func (s *ParaService) CreateResource(ctx context.Context, req CreateResourceRequest) (*models.Resource, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	return s.para.CreateResource(ctx, models.Resource{
		Title: req.Title,
		URL:   strings.TrimSpace(req.URL),
		Notes: req.Notes,
	})
}

func (s *ParaService) ListArchives(ctx context.Context) ([]models.ArchiveEntry, error) {
	return s.para.ListArchives(ctx)
}

// MoveToArchive snapshots a project or area into the archive and removes
// the live records.
func (s *ParaService) MoveToArchive(ctx context.Context, kind string, id int) (*models.ArchiveEntry, error) {
	var entry *models.ArchiveEntry
	var err error
	switch kind {
	case models.LinkedTypeProject:
		entry, err = s.para.ArchiveProject(ctx, id)
	case models.LinkedTypeArea:
		entry, err = s.para.ArchiveArea(ctx, id)
	default:
		return nil, &domain.ValidationError{Message: "type must be project or area"}
	}
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &domain.NotFoundError{Message: kind + " not found"}
	}
	return entry, nil
}

func (s *ParaService) ListTasks(ctx context.Context, f TaskFilter) (*TaskBoard, error) {
	tasks, err := s.para.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.para.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	areas, err := s.para.ListAreas(ctx)
	if err != nil {
		return nil, err
	}

	if f.ParentType != "" {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ParentType == f.ParentType {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}
	if f.ParentID != nil {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ParentID == *f.ParentID {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}
	if f.Priority != "" {
		kept := tasks[:0]
		for _, t := range tasks {
			if strings.EqualFold(taskPriority(t), f.Priority) {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}

	switch f.Sort {
	case "deadline":
		deadlines := map[int]string{}
		for _, p := range projects {
			deadlines[p.ID] = p.Deadline
		}
		key := func(t models.Task) string {
			if t.ParentType == models.LinkedTypeProject {
				if d, ok := deadlines[t.ParentID]; ok && d != "" {
					return d
				}
			}
			return "9999-99-99"
		}
		sort.SliceStable(tasks, func(i, j int) bool { return key(tasks[i]) < key(tasks[j]) })
	case "priority":
		order := map[string]int{"high": 0, "medium": 1, "low": 2}
		sort.SliceStable(tasks, func(i, j int) bool {
			return order[taskPriority(tasks[i])] < order[taskPriority(tasks[j])]
		})
	case "title":
		sort.SliceStable(tasks, func(i, j int) bool {
			return strings.ToLower(tasks[i].Title) < strings.ToLower(tasks[j].Title)
		})
	}

	return &TaskBoard{Tasks: tasks, Projects: projects, Areas: areas}, nil
}

func taskPriority(t models.Task) string {
	if t.Priority == "" {
		return "medium"
	}
	return strings.ToLower(t.Priority)
}

func (s *ParaService) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	exists, err := s.para.Exists(ctx, req.ParentType, req.ParentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &domain.NotFoundError{Message: req.ParentType + " not found"}
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	return s.para.CreateTask(ctx, models.Task{
		Title:      req.Title,
		Priority:   priority,
		ParentType: req.ParentType,
		ParentID:   req.ParentID,
	})
}

// UpdateTask applies a partial update. Reparenting requires both parent
// fields; the new parent must exist.
func (s *ParaService) UpdateTask(ctx context.Context, id int, req UpdateTaskRequest) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	task, err := s.para.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, &domain.NotFoundError{Message: "task not found"}
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	switch {
	case req.ParentType != nil && req.ParentID != nil:
		if *req.ParentType != models.LinkedTypeProject && *req.ParentType != models.LinkedTypeArea {
			return nil, &domain.ValidationError{Message: "parent_type must be project or area"}
		}
		exists, err := s.para.Exists(ctx, *req.ParentType, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, &domain.ValidationError{Message: *req.ParentType + " not found"}
		}
		task.ParentType = *req.ParentType
		task.ParentID = *req.ParentID
	case req.ParentType != nil || req.ParentID != nil:
		return nil, &domain.ValidationError{Message: "must provide both parent_type and parent_id"}
	}

	if err := s.para.UpdateTask(ctx, *task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *ParaService) DeleteTask(ctx context.Context, id int) error {
	found, err := s.para.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return &domain.NotFoundError{Message: "task not found"}
	}
	return nil
}

var prioritySuggestions = map[string]string{
	"high":   "Do this today, ideally in the next 2 hours.",
	"medium": "Schedule for this week; block 1-2 hours.",
	"low":    "Fit it in when you have spare time or next week.",
}

// SuggestWhen returns a scheduling hint derived from the task's priority.
func (s *ParaService) SuggestWhen(ctx context.Context, id int) (string, error) {
	task, err := s.para.GetTask(ctx, id)
	if err != nil {
		return "", err
	}
	if task == nil {
		return "", &domain.NotFoundError{Message: "task not found"}
	}
	if hint, ok := prioritySuggestions[taskPriority(*task)]; ok {
		return hint, nil
	}
	return prioritySuggestions["medium"], nil
}
