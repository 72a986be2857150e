package store

import "context"

// Workspace returns the cached workspace, if one has been seeded.
func (s *Store) Workspace(ctx context.Context) (Workspace, bool, error) {
	entity, found, err := s.FindSingleton(ctx, KindWorkspace)
	if err != nil || !found {
		return Workspace{}, found, err
	}
	return entity.Workspace(), true, nil
}

// User returns the cached user, if one has been seeded.
func (s *Store) User(ctx context.Context) (User, bool, error) {
	entity, found, err := s.FindSingleton(ctx, KindUser)
	if err != nil || !found {
		return User{}, found, err
	}
	return entity.User(), true, nil
}

func (s *Store) ProjectByName(ctx context.Context, workspaceID, name string) (Project, bool, error) {
	entity, found, err := s.FindByName(ctx, KindProject, workspaceID, name)
	if err != nil || !found {
		return Project{}, found, err
	}
	return entity.Project(), true, nil
}

func (s *Store) TaskByName(ctx context.Context, projectID, name string) (Task, bool, error) {
	entity, found, err := s.FindByName(ctx, KindTask, projectID, name)
	if err != nil || !found {
		return Task{}, found, err
	}
	return entity.Task(), true, nil
}

func (s *Store) TagByName(ctx context.Context, workspaceID, name string) (Tag, bool, error) {
	entity, found, err := s.FindByName(ctx, KindTag, workspaceID, name)
	if err != nil || !found {
		return Tag{}, found, err
	}
	return entity.Tag(), true, nil
}
