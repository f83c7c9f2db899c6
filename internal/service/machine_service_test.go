package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"stockatelier/internal/dto"
	"stockatelier/internal/filestore"
	"stockatelier/internal/infra"
	"stockatelier/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type machineEnv struct {
	svc   MachineService
	maint MaintenanceService
	repo  repository.MachineRepository
	files *filestore.Store
}

func newMachineEnv(t *testing.T) *machineEnv {
	t.Helper()
	db, err := infra.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	files, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	repo := repository.NewMachineRepository(db)
	return &machineEnv{
		svc:   NewMachineService(repo, files),
		maint: NewMaintenanceService(repo),
		repo:  repo,
		files: files,
	}
}

func machineForm(name, ref string) dto.MachineForm {
	return dto.MachineForm{Name: name, Reference: ref, Quantity: "1", Price: "1500.00"}
}

func TestMachineCreateWithModel(t *testing.T) {
	env := newMachineEnv(t)
	ctx := context.Background()

	m, err := env.svc.Create(ctx, machineForm("Fraiseuse", "FR-01"), "fraiseuse.glb", strings.NewReader("glTF"))
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.True(t, strings.HasPrefix(m.ModelAssetPath, filestore.URLPrefix))
	assert.True(t, env.files.Exists(m.ModelAssetPath))
	assert.True(t, m.Price.Equal(decimal.RequireFromString("1500")))
}

func TestMachineCreateRollsBackOnBadModel(t *testing.T) {
	env := newMachineEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, machineForm("Tour", "TO-01"), "model.stl", strings.NewReader("x"))
	require.ErrorIs(t, err, filestore.ErrUnsupportedFileType)

	// The half-created row must not survive.
	machines, err := env.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, machines)
}

func TestMachineFormCoercion(t *testing.T) {
	env := newMachineEnv(t)

	form := dto.MachineForm{
		Name: "Perceuse", Reference: "PE-01",
		Quantity: "abc", Price: "junk", AlertThreshold: "", Weight: "n/a",
	}
	m, err := env.svc.Create(context.Background(), form, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Quantity)
	assert.Equal(t, 5, m.AlertThreshold)
	assert.True(t, m.Price.IsZero())
	assert.Equal(t, 0.0, m.Weight)
}

func TestMachineNegativeNumbersClamped(t *testing.T) {
	env := newMachineEnv(t)

	form := dto.MachineForm{
		Name: "Rectifieuse", Reference: "RE-01",
		Quantity: "-2", Price: "-42.50", Weight: "-7", AlertThreshold: "-1",
	}
	m, err := env.svc.Create(context.Background(), form, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Quantity)
	assert.Equal(t, 0, m.AlertThreshold)
	assert.True(t, m.Price.IsZero(), "negative price clamps to zero, got %s", m.Price)
	assert.Equal(t, 0.0, m.Weight)
}

func TestMachineUpdatePriceGate(t *testing.T) {
	env := newMachineEnv(t)
	ctx := context.Background()

	m, err := env.svc.Create(ctx, machineForm("Scie", "SC-01"), "", nil)
	require.NoError(t, err)

	form := machineForm("Scie", "SC-01")
	form.Price = "9.99"
	updated, err := env.svc.Update(ctx, m.ID, form, false, "", nil)
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("1500")))

	updated, err = env.svc.Update(ctx, m.ID, form, true, "", nil)
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("9.99")))
}

func TestMachineModelReplacementRemovesOldAsset(t *testing.T) {
	env := newMachineEnv(t)
	ctx := context.Background()

	m, err := env.svc.Create(ctx, machineForm("Presse", "PR-01"), "v1.glb", strings.NewReader("one"))
	require.NoError(t, err)
	oldPath := m.ModelAssetPath

	updated, err := env.svc.Update(ctx, m.ID, machineForm("Presse", "PR-01"), true, "v2.gltf", strings.NewReader("two"))
	require.NoError(t, err)
	assert.NotEqual(t, oldPath, updated.ModelAssetPath)
	assert.True(t, env.files.Exists(updated.ModelAssetPath))
	assert.False(t, env.files.Exists(oldPath), "replaced asset must not linger on disk")
}

func TestMachineDeleteCascade(t *testing.T) {
	env := newMachineEnv(t)
	ctx := context.Background()

	m, err := env.svc.Create(ctx, machineForm("CNC", "CN-01"), "cnc.glb", strings.NewReader("glTF"))
	require.NoError(t, err)
	modelPath := m.ModelAssetPath

	doc, err := env.svc.AttachDocument(ctx, m.ID, "manual.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	_, err = env.maint.Create(ctx, m.ID, dto.MaintenanceRequest{Title: "graissage"})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, m.ID))

	_, err = env.svc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.maint.List(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, env.files.Exists(modelPath))
	assert.False(t, env.files.Exists(doc.StoredPath))

	// Deleting again is a clean 404, not an error cascade.
	assert.ErrorIs(t, env.svc.Delete(ctx, m.ID), ErrNotFound)
}

func TestAttachDocument(t *testing.T) {
	env := newMachineEnv(t)
	ctx := context.Background()

	m, err := env.svc.Create(ctx, machineForm("Poste soudure", "PS-01"), "", nil)
	require.NoError(t, err)

	doc, err := env.svc.AttachDocument(ctx, m.ID, "Schéma.PDF", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf", doc.FileType)
	assert.Equal(t, "Schéma.PDF", doc.Filename)
	assert.True(t, env.files.Exists(doc.StoredPath))

	_, err = env.svc.AttachDocument(ctx, m.ID, "virus.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, filestore.ErrUnsupportedFileType)

	_, err = env.svc.AttachDocument(ctx, 999, "manual.pdf", strings.NewReader("pdf"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetachDocument(t *testing.T) {
	env := newMachineEnv(t)
	ctx := context.Background()

	m, err := env.svc.Create(ctx, machineForm("Compresseur", "CO-01"), "", nil)
	require.NoError(t, err)
	doc, err := env.svc.AttachDocument(ctx, m.ID, "fiche.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)

	require.NoError(t, env.svc.DetachDocument(ctx, doc.ID))
	assert.False(t, env.files.Exists(doc.StoredPath))

	files, err := env.svc.ListFiles(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, files)

	assert.ErrorIs(t, env.svc.DetachDocument(ctx, doc.ID), ErrNotFound)
}
