package jsonstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parakeet/internal/domain/models"
	"parakeet/internal/store"
)

// ParaRepository stores the PARA collections in the shared blob.
type ParaRepository struct {
	store  store.Store
	logger *slog.Logger
}

// NewParaRepository creates a PARA repository over the given store.
func NewParaRepository(s store.Store, logger *slog.Logger) *ParaRepository {
	return &ParaRepository{store: s, logger: logger}
}

func (r *ParaRepository) Exists(ctx context.Context, kind string, id int) (bool, error) {
	exists := false
	err := r.store.View(ctx, func(d *store.Data) error {
		exists = paraExists(d, kind, id)
		return nil
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ParaRepository) ListProjects(ctx context.Context) ([]models.Project, error) {
	out := []models.Project{}
	err := r.store.View(ctx, func(d *store.Data) error {
		out = append(out, d.Projects...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ParaRepository) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	err := r.store.Update(ctx, func(d *store.Data) error {
		p.ID = store.NextID(d.Projects, func(x models.Project) int { return x.ID })
		d.Projects = append(d.Projects, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("project created", "id", p.ID, "title", p.Title)
	return &p, nil
}

func (r *ParaRepository) ListAreas(ctx context.Context) ([]models.Area, error) {
	out := []models.Area{}
	err := r.store.View(ctx, func(d *store.Data) error {
		out = append(out, d.Areas...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ParaRepository) CreateArea(ctx context.Context, a models.Area) (*models.Area, error) {
	err := r.store.Update(ctx, func(d *store.Data) error {
		a.ID = store.NextID(d.Areas, func(x models.Area) int { return x.ID })
		d.Areas = append(d.Areas, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("area created", "id", a.ID, "title", a.Title)
	return &a, nil
}

func (r *ParaRepository) ListResources(ctx context.Context) ([]models.Resource, error) {
	out := []models.Resource{}
	err := r.store.View(ctx, func(d *store.Data) error {
		out = append(out, d.Resources...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ParaRepository) CreateResource(ctx context.Context, res models.Resource) (*models.Resource, error) {
	err := r.store.Update(ctx, func(d *store.Data) error {
		res.ID = store.NextID(d.Resources, func(x models.Resource) int { return x.ID })
		d.Resources = append(d.Resources, res)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("resource created", "id", res.ID, "title", res.Title)
	return &res, nil
}

func (r *ParaRepository) ListArchives(ctx context.Context) ([]models.ArchiveEntry, error) {
	out := []models.ArchiveEntry{}
	err := r.store.View(ctx, func(d *store.Data) error {
		out = append(out, d.Archives...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ArchiveProject snapshots a project together with its nested areas and all
// tasks under either, appends the archive entry and removes the live
// records, in one atomic update.
func (r *ParaRepository) ArchiveProject(ctx context.Context, id int) (*models.ArchiveEntry, error) {
	var entry *models.ArchiveEntry
	err := r.store.Update(ctx, func(d *store.Data) error {
		var proj *models.Project
		for i := range d.Projects {
			if d.Projects[i].ID == id {
				proj = &d.Projects[i]
				break
			}
		}
		if proj == nil {
			return errNoChange
		}

		areaIDs := map[int]struct{}{}
		nested := []models.ArchivedArea{}
		for _, a := range d.Areas {
			if a.ProjectID != nil && *a.ProjectID == id {
				areaIDs[a.ID] = struct{}{}
				nested = append(nested, models.ArchivedArea{ID: a.ID, Title: a.Title, Tasks: []models.Task{}})
			}
		}

		tasks := []models.Task{}
		for _, t := range d.Tasks {
			switch {
			case t.ParentType == models.LinkedTypeProject && t.ParentID == id:
				tasks = append(tasks, t)
			case t.ParentType == models.LinkedTypeArea:
				if _, ok := areaIDs[t.ParentID]; ok {
					tasks = append(tasks, t)
					for i := range nested {
						if nested[i].ID == t.ParentID {
							nested[i].Tasks = append(nested[i].Tasks, t)
						}
					}
				}
			}
		}

		entry = &models.ArchiveEntry{
			ID:         store.NextID(d.Archives, func(e models.ArchiveEntry) int { return e.ID }),
			Type:       models.LinkedTypeProject,
			SourceID:   id,
			Title:      proj.Title,
			Goal:       proj.Goal,
			Deadline:   proj.Deadline,
			ArchivedAt: time.Now().UTC(),
			Tasks:      tasks,
			Areas:      nested,
		}
		d.Archives = append(d.Archives, *entry)

		projects := d.Projects[:0]
		for _, p := range d.Projects {
			if p.ID != id {
				projects = append(projects, p)
			}
		}
		d.Projects = projects

		areas := d.Areas[:0]
		for _, a := range d.Areas {
			if a.ProjectID == nil || *a.ProjectID != id {
				areas = append(areas, a)
			}
		}
		d.Areas = areas

		live := d.Tasks[:0]
		for _, t := range d.Tasks {
			if t.ParentType == models.LinkedTypeProject && t.ParentID == id {
				continue
			}
			if t.ParentType == models.LinkedTypeArea {
				if _, ok := areaIDs[t.ParentID]; ok {
					continue
				}
			}
			live = append(live, t)
		}
		d.Tasks = live
		return nil
	})
	if errors.Is(err, errNoChange) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("project archived", "id", id, "archive_id", entry.ID)
	return entry, nil
}

// ArchiveArea snapshots an area with its tasks and removes the live records.
func (r *ParaRepository) ArchiveArea(ctx context.Context, id int) (*models.ArchiveEntry, error) {
	var entry *models.ArchiveEntry
	err := r.store.Update(ctx, func(d *store.Data) error {
		var area *models.Area
		for i := range d.Areas {
			if d.Areas[i].ID == id {
				area = &d.Areas[i]
				break
			}
		}
		if area == nil {
			return errNoChange
		}

		tasks := []models.Task{}
		for _, t := range d.Tasks {
			if t.ParentType == models.LinkedTypeArea && t.ParentID == id {
				tasks = append(tasks, t)
			}
		}

		entry = &models.ArchiveEntry{
			ID:         store.NextID(d.Archives, func(e models.ArchiveEntry) int { return e.ID }),
			Type:       models.LinkedTypeArea,
			SourceID:   id,
			Title:      area.Title,
			ArchivedAt: time.Now().UTC(),
			Tasks:      tasks,
		}
		d.Archives = append(d.Archives, *entry)

		areas := d.Areas[:0]
		for _, a := range d.Areas {
			if a.ID != id {
				areas = append(areas, a)
			}
		}
		d.Areas = areas

		live := d.Tasks[:0]
		for _, t := range d.Tasks {
			if t.ParentType == models.LinkedTypeArea && t.ParentID == id {
				continue
			}
			live = append(live, t)
		}
		d.Tasks = live
		return nil
	})
	if errors.Is(err, errNoChange) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("area archived", "id", id, "archive_id", entry.ID)
	return entry, nil
}

func (r *ParaRepository) ListTasks(ctx context.Context) ([]models.Task, error) {
	out := []models.Task{}
	err := r.store.View(ctx, func(d *store.Data) error {
		out = append(out, d.Tasks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ParaRepository) GetTask(ctx context.Context, id int) (*models.Task, error) {
	var task *models.Task
	err := r.store.View(ctx, func(d *store.Data) error {
		for _, t := range d.Tasks {
			if t.ID == id {
				cp := t
				task = &cp
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *ParaRepository) CreateTask(ctx context.Context, t models.Task) (*models.Task, error) {
	err := r.store.Update(ctx, func(d *store.Data) error {
		t.ID = store.NextID(d.Tasks, func(x models.Task) int { return x.ID })
		d.Tasks = append(d.Tasks, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("task created", "id", t.ID, "title", t.Title, "priority", t.Priority)
	return &t, nil
}

func (r *ParaRepository) UpdateTask(ctx context.Context, t models.Task) error {
	err := r.store.Update(ctx, func(d *store.Data) error {
		for i := range d.Tasks {
			if d.Tasks[i].ID == t.ID {
				d.Tasks[i] = t
				return nil
			}
		}
		return errNoChange
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}

// DeleteTask removes the task plus any document links and current markup
// records scoped to it. Markup version history is left untouched; the
// versions become unreachable once their context is gone.
func (r *ParaRepository) DeleteTask(ctx context.Context, id int) (bool, error) {
	found := false
	err := r.store.Update(ctx, func(d *store.Data) error {
		tasks := d.Tasks[:0]
		for _, t := range d.Tasks {
			if t.ID == id {
				found = true
				continue
			}
			tasks = append(tasks, t)
		}
		if !found {
			return errNoChange
		}
		d.Tasks = tasks

		kind := models.LinkedTypeTask
		links := d.DocumentLinks[:0]
		for _, lnk := range d.DocumentLinks {
			if lnk.LinkedType == kind && lnk.LinkedID == id {
				continue
			}
			links = append(links, lnk)
		}
		d.DocumentLinks = links

		records := d.DocumentMarkups[:0]
		for _, rec := range d.DocumentMarkups {
			if rec.LinkedType != nil && *rec.LinkedType == kind && rec.LinkedID != nil && *rec.LinkedID == id {
				continue
			}
			records = append(records, rec)
		}
		d.DocumentMarkups = records
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return false, err
	}

	if found {
		r.logger.Info("task deleted", "id", id)
	}
	return found, nil
}
