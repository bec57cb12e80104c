package glm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridstack-labs/glmkit/internal/testutil"
)

const feederModel = `clock {
	timezone EST5EDT;
	starttime '2001-01-01 00:00:00';
	stoptime '2001-01-01 01:00:00';
}
object meter {
	name meter_1;
	phases ABC;
}
object load {
	name load_1;
	parent meter_1;
}
`

func newFeederManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManagerWithConfig(feederModel, Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return m
}

func TestNewManagerKeyCounters(t *testing.T) {
	m := newFeederManager(t)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 3, m.AppendKey())
	assert.Equal(t, -1, m.PrependKey())
}

func TestNewManagerEmptyModel(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.AppendKey())
	assert.Equal(t, -1, m.PrependKey())
}

func TestNewManagerDuplicateObjectFails(t *testing.T) {
	_, err := NewManager(`object meter {
	name m1;
}
object meter {
	name m1;
}
`)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestAddItemObjectAppends(t *testing.T) {
	m := newFeederManager(t)

	obj := NewObject("capacitor")
	obj.Fields.Set("name", "cap_1")
	require.NoError(t, m.AddItem(obj))

	it, ok := m.Item(3)
	require.True(t, ok)
	assert.Same(t, obj, it)
	assert.Equal(t, 4, m.AppendKey())
	assert.NotNil(t, m.FindObject("capacitor", "cap_1"))
}

func TestAddItemDuplicateObjectLeavesModelUntouched(t *testing.T) {
	m := newFeederManager(t)
	before := m.Len()

	dup := NewObject("meter")
	dup.Fields.Set("name", "meter_1")
	err := m.AddItem(dup)
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, before, m.Len())
	assert.Equal(t, 3, m.AppendKey())
}

func TestAddItemClockPrepends(t *testing.T) {
	m, err := NewManager("object meter {\n\tname m1;\n}\n")
	require.NoError(t, err)

	clock := NewClock()
	clock.Fields.Set("timezone", "UTC0")
	require.NoError(t, m.AddItem(clock))

	got, key, ok := m.Clock()
	require.True(t, ok)
	assert.Same(t, clock, got)
	assert.Equal(t, -1, key)
	assert.Equal(t, -2, m.PrependKey())
}

func TestAddItemSecondClockFails(t *testing.T) {
	m := newFeederManager(t)
	err := m.AddItem(NewClock())
	require.ErrorIs(t, err, ErrDuplicate)

	// The failed add must not burn a key.
	assert.Equal(t, -1, m.PrependKey())
}

func TestAddItemModuleDirective(t *testing.T) {
	m := newFeederManager(t)
	require.NoError(t, m.AddItem(&Directive{Keyword: "module", Argument: "mysql"}))
	assert.True(t, m.ModulePresent("mysql"))
}

func TestAddItemUnsupportedKind(t *testing.T) {
	m := newFeederManager(t)
	err := m.AddItem(&Schedule{Name: "s", Body: "* * * * * 1;"})
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestModifyItemObject(t *testing.T) {
	m := newFeederManager(t)

	patch := NewObject("meter")
	patch.Fields.Set("name", "meter_1")
	patch.Fields.Set("phases", "AB")
	patch.Fields.Set("nominal_voltage", "7200")
	require.NoError(t, m.ModifyItem(patch))

	target := m.FindObject("meter", "meter_1")
	require.NotNil(t, target)
	v, _ := target.Fields.Get("phases")
	assert.Equal(t, "AB", v)
	v, _ = target.Fields.Get("nominal_voltage")
	assert.Equal(t, "7200", v)
}

func TestModifyItemObjectRequiresName(t *testing.T) {
	m := newFeederManager(t)
	err := m.ModifyItem(NewObject("meter"))
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestModifyItemObjectNotFound(t *testing.T) {
	m := newFeederManager(t)
	patch := NewObject("meter")
	patch.Fields.Set("name", "no_such_meter")
	require.ErrorIs(t, m.ModifyItem(patch), ErrNotFound)
}

func TestModifyItemUpgradesModuleDirective(t *testing.T) {
	m, err := NewManager("module powerflow;\nobject meter {\n\tname m1;\n}\n")
	require.NoError(t, err)

	patch := NewModule("powerflow")
	patch.Fields.Set("solver_method", "NR")
	require.NoError(t, m.ModifyItem(patch))

	// The one-line declaration becomes a block module at the same key.
	it, ok := m.Item(0)
	require.True(t, ok)
	mod, ok := it.(*Module)
	require.True(t, ok, "expected *Module at key 0, got %T", it)
	v, _ := mod.Fields.Get("solver_method")
	assert.Equal(t, "NR", v)
	assert.True(t, m.ModulePresent("powerflow"))
}

func TestRemovePropertiesFromItem(t *testing.T) {
	m := newFeederManager(t)

	target := NewObject("meter")
	target.Fields.Set("name", "meter_1")
	require.NoError(t, m.RemovePropertiesFromItem(target, []string{"phases"}))

	obj := m.FindObject("meter", "meter_1")
	assert.False(t, obj.Fields.Has("phases"))
	assert.True(t, obj.Fields.Has("name"))
}

func TestRemovePropertiesMissingFieldIsAtomic(t *testing.T) {
	m := newFeederManager(t)

	target := NewObject("meter")
	target.Fields.Set("name", "meter_1")
	err := m.RemovePropertiesFromItem(target, []string{"phases", "no_such_field"})
	require.ErrorIs(t, err, ErrNotFound)

	// Nothing was removed, including the field that did exist.
	obj := m.FindObject("meter", "meter_1")
	assert.True(t, obj.Fields.Has("phases"))
}

func TestRemoveItemObject(t *testing.T) {
	m := newFeederManager(t)

	target := NewObject("load")
	target.Fields.Set("name", "load_1")
	require.NoError(t, m.RemoveItem(target))

	assert.Nil(t, m.FindObject("load", "load_1"))
	assert.Equal(t, 2, m.Len())

	// Removing again is ErrNotFound.
	require.ErrorIs(t, m.RemoveItem(target), ErrNotFound)
}

func TestRemoveItemObjectRemovesChildren(t *testing.T) {
	m, err := NewManager(`object house {
	name house_1;
	object ZIPload {
		name zip_1;
	};
}
`)
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())

	target := NewObject("house")
	target.Fields.Set("name", "house_1")
	require.NoError(t, m.RemoveItem(target))

	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.FindObject("ZIPload", "zip_1"))
}

func TestRemoveItemUnnamedObject(t *testing.T) {
	m, err := NewManager("object recorder {\n\tinterval 60;\n}\n")
	require.NoError(t, err)
	require.ErrorIs(t, m.RemoveItem(NewObject("recorder")), ErrNotFound)
}

func TestRemoveItemClockAndModule(t *testing.T) {
	m, err := NewManager("module powerflow;\n" + feederModel)
	require.NoError(t, err)

	require.NoError(t, m.RemoveItem(NewClock()))
	_, _, ok := m.Clock()
	assert.False(t, ok)

	require.NoError(t, m.RemoveItem(NewModule("powerflow")))
	assert.False(t, m.ModulePresent("powerflow"))
}

func TestObjectsByType(t *testing.T) {
	m := newFeederManager(t)

	meters := m.ObjectsByType("meter")
	require.Len(t, meters, 1)
	assert.Equal(t, "meter_1", meters[0].Name())

	assert.Nil(t, m.ObjectsByType("capacitor"))
}

func TestUnnamedObjects(t *testing.T) {
	m, err := NewManager(`object recorder {
	interval 60;
}
object meter {
	name m1;
}
`)
	require.NoError(t, err)
	unnamed := m.UnnamedObjects()
	require.Len(t, unnamed, 1)
	assert.Equal(t, "recorder", unnamed[0].Type)
}

func TestAddOrModifyClockRequiresInput(t *testing.T) {
	m := newFeederManager(t)
	require.ErrorIs(t, m.AddOrModifyClock(nil, nil, ""), ErrInvalidValue)
}

func TestAddOrModifyClockPartialUpdate(t *testing.T) {
	m := newFeederManager(t)

	start := time.Date(2013, 4, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, m.AddOrModifyClock(&start, nil, ""))

	clock, _, ok := m.Clock()
	require.True(t, ok)
	v, _ := clock.Fields.Get("starttime")
	assert.Equal(t, "'2013-04-01 08:00:00'", v)
	v, _ = clock.Fields.Get("stoptime")
	assert.Equal(t, "'2001-01-01 01:00:00'", v)
	v, _ = clock.Fields.Get("timezone")
	assert.Equal(t, "EST5EDT", v)
}

func TestAddOrModifyClockCreateRequiresAllFields(t *testing.T) {
	m, err := NewManager("object meter {\n\tname m1;\n}\n")
	require.NoError(t, err)

	start := time.Date(2013, 4, 1, 8, 0, 0, 0, time.UTC)
	require.ErrorIs(t, m.AddOrModifyClock(&start, nil, ""), ErrInvalidValue)

	stop := start.Add(time.Hour)
	require.NoError(t, m.AddOrModifyClock(&start, &stop, "PST8PDT"))

	clock, key, ok := m.Clock()
	require.True(t, ok)
	assert.Equal(t, -1, key)
	v, _ := clock.Fields.Get("timezone")
	assert.Equal(t, "PST8PDT", v)
}

func TestAddRunComponentsKeyLayout(t *testing.T) {
	m := newFeederManager(t)
	require.NoError(t, m.AddRunComponents(RunComponents{Timezone: "EST5EDT"}))

	wantArgs := map[int]string{
		-1: "VSOURCE=66395.28",
		-3: "relax_naming_rules=1",
		-4: "profiler=0",
		-5: "minimum_timestep=60",
	}
	for key, arg := range wantArgs {
		it, ok := m.Item(key)
		require.True(t, ok, "missing item at key %d", key)
		d, ok := it.(*Directive)
		require.True(t, ok, "expected *Directive at key %d, got %T", key, it)
		assert.Equal(t, arg, d.Argument, "key %d", key)
	}

	it, ok := m.Item(-2)
	require.True(t, ok)
	mod, ok := it.(*Module)
	require.True(t, ok, "expected *Module at key -2, got %T", it)
	assert.Equal(t, "powerflow", mod.Name)
	v, _ := mod.Fields.Get("solver_method")
	assert.Equal(t, "NR", v)
	v, _ = mod.Fields.Get("line_capacitance")
	assert.Equal(t, "TRUE", v)

	// The existing clock was modified in place, not re-added.
	_, clockKey, ok := m.Clock()
	require.True(t, ok)
	assert.Equal(t, 0, clockKey)
	assert.Equal(t, -6, m.PrependKey())
}

func TestAddRunComponentsWithDistributedGeneration(t *testing.T) {
	m, err := NewManager(feederModel + `object solar {
	name pv_1;
}
`)
	require.NoError(t, err)
	require.True(t, m.HasDistributedGeneration())
	require.NoError(t, m.AddRunComponents(RunComponents{Timezone: "EST5EDT"}))

	it, ok := m.Item(-2)
	require.True(t, ok)
	pf, ok := it.(*Module)
	require.True(t, ok, "expected *Module at key -2, got %T", it)
	assert.Equal(t, "powerflow", pf.Name)

	it, _ = m.Item(-3)
	gen, ok := it.(*Module)
	require.True(t, ok)
	assert.Equal(t, "generators", gen.Name)
	assert.Equal(t, -7, m.PrependKey())
}

func TestAddRunComponentsExistingGeneratorsModule(t *testing.T) {
	m, err := NewManager("module generators;\n" + feederModel + `object battery {
	name batt_1;
}
`)
	require.NoError(t, err)
	require.NoError(t, m.AddRunComponents(RunComponents{Timezone: "EST5EDT"}))

	// No second generators module was added.
	it, _ := m.Item(-2)
	pf, ok := it.(*Module)
	require.True(t, ok)
	assert.Equal(t, "powerflow", pf.Name)
}

func TestAddRunComponentsOverrides(t *testing.T) {
	m := newFeederManager(t)

	vsource := 7200.0
	profiler := 1
	timestep := 15
	start := time.Date(2013, 4, 1, 8, 0, 0, 0, time.UTC)
	stop := start.Add(15 * time.Minute)
	require.NoError(t, m.AddRunComponents(RunComponents{
		Starttime:       &start,
		Stoptime:        &stop,
		Timezone:        "PST8PDT",
		VSource:         &vsource,
		Profiler:        &profiler,
		MinimumTimestep: &timestep,
	}))

	it, _ := m.Item(-1)
	assert.Equal(t, "VSOURCE=7200", it.(*Directive).Argument)
	it, _ = m.Item(-4)
	assert.Equal(t, "profiler=1", it.(*Directive).Argument)
	it, _ = m.Item(-5)
	assert.Equal(t, "minimum_timestep=15", it.(*Directive).Argument)

	clock, _, _ := m.Clock()
	v, _ := clock.Fields.Get("timezone")
	assert.Equal(t, "PST8PDT", v)
}

func TestAddRunComponentsRequiresClockInput(t *testing.T) {
	m := newFeederManager(t)
	require.ErrorIs(t, m.AddRunComponents(RunComponents{}), ErrInvalidValue)

	// Nothing was prepended and the existing clock was left alone.
	assert.Equal(t, -1, m.PrependKey())
	clock, _, ok := m.Clock()
	require.True(t, ok)
	v, _ := clock.Fields.Get("starttime")
	assert.Equal(t, "'2001-01-01 00:00:00'", v)
}

func TestAddRunComponentsInvalidValues(t *testing.T) {
	bad := 2
	m := newFeederManager(t)
	require.ErrorIs(t, m.AddRunComponents(RunComponents{Profiler: &bad}), ErrInvalidValue)

	zero := 0
	require.ErrorIs(t, m.AddRunComponents(RunComponents{MinimumTimestep: &zero}), ErrInvalidValue)

	// Validation happens before any mutation.
	assert.Equal(t, -1, m.PrependKey())
}

func TestRenderAfterRunComponents(t *testing.T) {
	m := newFeederManager(t)
	require.NoError(t, m.AddRunComponents(RunComponents{Timezone: "EST5EDT"}))

	text, warnings := m.Render()
	assert.Empty(t, warnings)

	order := []string{
		"#set minimum_timestep=60",
		"#set profiler=0",
		"#set relax_naming_rules=1",
		"module powerflow {",
		"#define VSOURCE=66395.28",
		"clock {",
		"object meter {",
	}
	pos := -1
	for _, marker := range order {
		i := strings.Index(text, marker)
		require.GreaterOrEqual(t, i, 0, "missing %q in rendered model", marker)
		assert.Greater(t, i, pos, "%q rendered out of order", marker)
		pos = i
	}
}
