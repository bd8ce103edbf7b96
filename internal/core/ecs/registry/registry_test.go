package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"entitygrid/internal/core/ecs"
)

type velocity struct {
	DX, DY float64
}

type frozenTag struct{}

func Test_Registry_CreateAndDestroy(t *testing.T) {
	// Arrange
	r, err := New()
	assert.NoError(t, err)

	// Act
	e, createErr := r.Create()

	// Assert
	assert.NoError(t, createErr)
	assert.True(t, r.Valid(e))

	r.Destroy(e)
	assert.False(t, r.Valid(e))
}

func Test_Registry_Destroy_InvalidEntityIsSilentNoOp(t *testing.T) {
	// Arrange
	r, _ := New()

	// Act & Assert: must not panic or error.
	r.Destroy(ecs.EntityID(99999))
}

func Test_Registry_Prepare_IsIdempotentAndFixesKind(t *testing.T) {
	// Arrange
	r, _ := New()

	// Act
	store1, err1 := Prepare[velocity](r, ecs.KindStandard)
	store2, err2 := Prepare[velocity](r, ecs.KindEmpty)

	// Assert
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Same(t, store1, store2)
	assert.Equal(t, ecs.KindStandard, store1.Kind())
}

func Test_Registry_Add_RequiresLiveEntity(t *testing.T) {
	// Arrange
	r, _ := New()

	// Act
	status, err := Add[velocity](r, ecs.EntityID(99999), ecs.KindStandard, velocity{}, true, true)

	// Assert
	assert.Equal(t, ecs.StatusFailure, status)
	assert.Error(t, err)
	assert.True(t, ecs.IsInvalidHandle(err))
}

func Test_Registry_Add_AndGet_RoundTrip(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()

	// Act
	status, err := Add[velocity](r, e, ecs.KindStandard, velocity{DX: 1, DY: 2}, true, true)
	got, getErr := Get[velocity](r, e)

	// Assert
	assert.Equal(t, ecs.StatusSuccess, status)
	assert.NoError(t, err)
	assert.NoError(t, getErr)
	assert.Equal(t, velocity{DX: 1, DY: 2}, *got)
	assert.True(t, Has[velocity](r, e))
}

func Test_Registry_TryGet_AbsentComponentReturnsNilNoError(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()

	// Act
	got, err := TryGet[velocity](r, e)

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func Test_Registry_GetConst_ReturnsIndependentCopy(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()
	_, _ = Add[velocity](r, e, ecs.KindStandard, velocity{DX: 1}, true, true)

	// Act
	copied, err := GetConst[velocity](r, e)
	live, _ := Get[velocity](r, e)
	live.DX = 50

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, float64(1), copied.DX)
	assert.Equal(t, float64(50), live.DX)
}

func Test_Registry_Remove_EvictsComponent(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()
	_, _ = Add[velocity](r, e, ecs.KindStandard, velocity{DX: 1}, true, true)

	// Act
	status := Remove[velocity](r, e)

	// Assert
	assert.Equal(t, ecs.StatusSuccess, status)
	assert.False(t, Has[velocity](r, e))
}

func Test_Registry_RemoveIfExist_AbsentIsSuccess(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()
	_, _ = Prepare[velocity](r, ecs.KindStandard)

	// Act
	status := RemoveIfExist[velocity](r, e)

	// Assert
	assert.Equal(t, ecs.StatusSuccess, status)
}

func Test_Registry_Replace_RequiresExistingComponent(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()
	_, _ = Prepare[velocity](r, ecs.KindStandard)

	// Act
	err := Replace[velocity](r, e, velocity{DX: 9})

	// Assert
	assert.Error(t, err)
	assert.True(t, ecs.IsComponentNotFound(err))
}

func Test_Registry_FetchReplace_ReturnsPreviousValue(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()
	_, _ = Add[velocity](r, e, ecs.KindStandard, velocity{DX: 1}, true, true)

	// Act
	previous, err := FetchReplace[velocity](r, e, velocity{DX: 2})
	current, _ := Get[velocity](r, e)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, velocity{DX: 1}, previous)
	assert.Equal(t, velocity{DX: 2}, *current)
}

func Test_Registry_Destroy_PurgesAllComponentStores(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()
	_, _ = Add[velocity](r, e, ecs.KindStandard, velocity{DX: 1}, true, true)
	_, _ = Add[frozenTag](r, e, ecs.KindEmpty, frozenTag{}, true, true)

	// Act
	r.Destroy(e)

	// Assert
	assert.False(t, r.Valid(e))
	assert.False(t, Has[velocity](r, e))
	assert.False(t, Has[frozenTag](r, e))
}

func Test_Registry_RemoveAll_PurgesStoresButLeavesEntityAlive(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()
	_, _ = Add[velocity](r, e, ecs.KindStandard, velocity{DX: 1}, true, true)
	_, _ = Add[frozenTag](r, e, ecs.KindEmpty, frozenTag{}, true, true)

	// Act
	err := r.RemoveAll(e)

	// Assert
	assert.NoError(t, err)
	assert.True(t, r.Valid(e))
	assert.False(t, Has[velocity](r, e))
	assert.False(t, Has[frozenTag](r, e))
}

func Test_Registry_RemoveAll_InvalidEntityFails(t *testing.T) {
	// Arrange
	r, _ := New()

	// Act
	err := r.RemoveAll(ecs.EntityID(99999))

	// Assert
	assert.Error(t, err)
	assert.True(t, ecs.IsInvalidHandle(err))
}

func Test_Registry_AddComps_AttachesHeterogeneousList(t *testing.T) {
	// Arrange
	r, _ := New()
	e, _ := r.Create()
	specs := []ComponentSpec{
		NewSpec[velocity](ecs.KindStandard, velocity{DX: 3, DY: 4}),
		NewSpec[frozenTag](ecs.KindEmpty, frozenTag{}),
	}

	// Act
	err := AddComps(r, e, specs)

	// Assert
	assert.NoError(t, err)
	assert.True(t, Has[velocity](r, e))
	assert.True(t, Has[frozenTag](r, e))
}

func Test_Registry_AddComps_InvalidEntityFails(t *testing.T) {
	// Arrange
	r, _ := New()

	// Act
	err := AddComps(r, ecs.EntityID(99999), []ComponentSpec{NewSpec[velocity](ecs.KindStandard, velocity{})})

	// Assert
	assert.Error(t, err)
	assert.True(t, ecs.IsInvalidHandle(err))
}

func Test_Registry_SortByComponent_DelegatesToStore(t *testing.T) {
	// Arrange
	r, _ := New()
	e1, _ := r.Create()
	e2, _ := r.Create()
	_, _ = Add[velocity](r, e1, ecs.KindStandard, velocity{DX: 2}, true, true)
	_, _ = Add[velocity](r, e2, ecs.KindStandard, velocity{DX: 1}, true, true)

	// Act
	status := SortByComponent[velocity](r, func(a, b velocity) bool { return a.DX < b.DX })

	// Assert
	assert.Equal(t, ecs.StatusSuccess, status)
}

func Test_Registry_SortEmpty_DelegatesToStore(t *testing.T) {
	// Arrange
	r, _ := New()
	e1, _ := r.Create()
	e2, _ := r.Create()
	_, _ = Add[frozenTag](r, e1, ecs.KindEmpty, frozenTag{}, true, true)
	_, _ = Add[frozenTag](r, e2, ecs.KindEmpty, frozenTag{}, true, true)

	// Act
	status := SortEmpty[frozenTag](r, func(a, b ecs.EntityID) bool { return a < b })

	// Assert
	assert.Equal(t, ecs.StatusSuccess, status)
}
