package repositories

import (
	"context"

	"parakeet/internal/domain/models"
)

// ParaRepository is the storage for the surrounding PARA collections
// (projects, areas, resources, archives, tasks). The markup core only
// depends on Exists; the rest backs the plain CRUD surface.
type ParaRepository interface {
	// Exists reports whether a PARA item of the given kind and id exists.
	Exists(ctx context.Context, kind string, id int) (bool, error)

	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)

	ListAreas(ctx context.Context) ([]models.Area, error)
	CreateArea(ctx context.Context, a models.Area) (*models.Area, error)

	ListResources(ctx context.Context) ([]models.Resource, error)
	CreateResource(ctx context.Context, r models.Resource) (*models.Resource, error)

	ListArchives(ctx context.Context) ([]models.ArchiveEntry, error)

	// ArchiveProject snapshots a project with its nested areas and tasks
	// into a new archive entry and removes the live records. Nil when the
	// project is unknown.
	ArchiveProject(ctx context.Context, id int) (*models.ArchiveEntry, error)

	// ArchiveArea snapshots an area with its tasks. Nil when unknown.
	ArchiveArea(ctx context.Context, id int) (*models.ArchiveEntry, error)

	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int) (*models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, t models.Task) error

	// DeleteTask removes a task and cascades removal of document links and
	// current markup records scoped to it. Reports whether a task existed.
	DeleteTask(ctx context.Context, id int) (bool, error)
}
