package drive

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"stash/internal/domain"
	"stash/internal/domain/models"
	"stash/internal/domain/repositories"
)

// fakeStore is an in-memory stand-in for the postgres repositories,
// mirroring their contracts: owner-scoped reads, cascade on folder
// delete, detach of contained files, idempotent deletes.
type fakeStore struct {
	mu      sync.Mutex
	nextKey int64
	nextTS  time.Time
	folders map[int64]*models.Folder
	files   map[int64]*models.File
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextTS:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		folders: make(map[int64]*models.Folder),
		files:   make(map[int64]*models.File),
	}
}

func (s *fakeStore) allocate() (int64, time.Time) {
	s.nextKey++
	s.nextTS = s.nextTS.Add(time.Second)
	return s.nextKey, s.nextTS
}

type fakeFolderRepo struct {
	store *fakeStore
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if folder.ParentKey != nil {
		parent, ok := s.folders[*folder.ParentKey]
		if !ok || parent.OwnerID != folder.OwnerID {
			return domain.ErrInvalidParent
		}
		parentID := parent.ID
		folder.ParentID = &parentID
	}

	folder.Key, folder.CreatedAt = s.allocate()
	folder.ID = uuid.New()

	stored := *folder
	s.folders[folder.Key] = &stored
	return nil
}

func (r *fakeFolderRepo) GetByPublicID(ctx context.Context, publicID uuid.UUID, ownerID string) (*models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.folders {
		if f.ID == publicID && f.OwnerID == ownerID {
			copied := *f
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeFolderRepo) GetRoot(ctx context.Context, ownerID string) (*models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.folders {
		if f.OwnerID == ownerID && f.ParentKey == nil {
			copied := *f
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeFolderRepo) CreateRoot(ctx context.Context, ownerID string) (*models.Folder, error) {
	s := r.store
	s.mu.Lock()

	for _, f := range s.folders {
		if f.OwnerID == ownerID && f.ParentKey == nil {
			copied := *f
			s.mu.Unlock()
			return &copied, nil
		}
	}

	root := &models.Folder{
		Name:    models.RootFolderName,
		OwnerID: ownerID,
	}
	root.Key, root.CreatedAt = s.allocate()
	root.ID = uuid.New()
	s.folders[root.Key] = root

	copied := *root
	s.mu.Unlock()
	return &copied, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.folders[folder.Key]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Name = folder.Name
	stored.ParentKey = folder.ParentKey
	stored.ParentID = folder.ParentID
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, key int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, ok := s.folders[key]
	if !ok {
		return nil
	}
	if folder.ParentKey == nil {
		return fmt.Errorf("root folder: %w", domain.ErrProtected)
	}

	r.deleteSubtree(key)
	return nil
}

// deleteSubtree removes the folder and descendants, detaching files.
// Caller holds the lock.
func (r *fakeFolderRepo) deleteSubtree(key int64) {
	s := r.store

	for _, f := range s.files {
		if f.FolderKey != nil && *f.FolderKey == key {
			f.FolderKey = nil
			f.FolderID = nil
		}
	}

	var children []int64
	for k, f := range s.folders {
		if f.ParentKey != nil && *f.ParentKey == key {
			children = append(children, k)
		}
	}
	delete(s.folders, key)

	for _, child := range children {
		r.deleteSubtree(child)
	}
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentKey int64) ([]models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Folder
	for _, f := range s.folders {
		if f.ParentKey != nil && *f.ParentKey == parentKey {
			out = append(out, *f)
		}
	}
	sortFolders(out)
	return out, nil
}

func (r *fakeFolderRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Folder
	for _, f := range s.folders {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	sortFolders(out)
	return out, nil
}

type fakeFileRepo struct {
	store *fakeStore
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if file.FolderKey != nil {
		folder, ok := s.folders[*file.FolderKey]
		if !ok || folder.OwnerID != file.OwnerID {
			return domain.ErrOwnerMismatch
		}
		folderID := folder.ID
		file.FolderID = &folderID
	}

	file.Key, file.CreatedAt = s.allocate()
	file.ID = uuid.New()

	stored := *file
	s.files[file.Key] = &stored
	return nil
}

func (r *fakeFileRepo) GetByPublicID(ctx context.Context, publicID uuid.UUID, ownerID string) (*models.File, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.ID == publicID && f.OwnerID == ownerID {
			copied := *f
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeFileRepo) Delete(ctx context.Context, key int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, key)
	return nil
}

func (r *fakeFileRepo) ListByFolder(ctx context.Context, folderKey int64) ([]models.File, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.File
	for _, f := range s.files {
		if f.FolderKey != nil && *f.FolderKey == folderKey {
			out = append(out, *f)
		}
	}
	sortFiles(out)
	return out, nil
}

func (r *fakeFileRepo) ListUnfiled(ctx context.Context, ownerID string) ([]models.File, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.File
	for _, f := range s.files {
		if f.OwnerID == ownerID && f.FolderKey == nil {
			out = append(out, *f)
		}
	}
	sortFiles(out)
	return out, nil
}

func sortFolders(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool {
		if !folders[i].CreatedAt.Equal(folders[j].CreatedAt) {
			return folders[i].CreatedAt.Before(folders[j].CreatedAt)
		}
		return folders[i].Key < folders[j].Key
	})
}

func sortFiles(files []models.File) {
	sort.Slice(files, func(i, j int) bool {
		if !files[i].CreatedAt.Equal(files[j].CreatedAt) {
			return files[i].CreatedAt.Before(files[j].CreatedAt)
		}
		return files[i].Key < files[j].Key
	})
}

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// testEnv bundles a drive service wired over the in-memory store.
type testEnv struct {
	store      *fakeStore
	folderRepo *fakeFolderRepo
	fileRepo   *fakeFileRepo
	drive      *driveService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	folderRepo := &fakeFolderRepo{store: store}
	fileRepo := &fakeFileRepo{store: store}
	logger := slog.New(slog.DiscardHandler)

	svc := NewDriveService(folderRepo, fileRepo, fakeTxManager{}, logger)
	return &testEnv{
		store:      store,
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		drive:      svc.(*driveService),
	}
}

// mustRoot provisions and returns the user's root folder.
func (e *testEnv) mustRoot(ownerID string) *models.Folder {
	root, err := e.folderRepo.CreateRoot(context.Background(), ownerID)
	if err != nil {
		panic(err)
	}
	return root
}
