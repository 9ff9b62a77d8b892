package catalog

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) has(entity, action string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.Entity == entity && e.Action == action && e.ID == id {
			return true
		}
	}
	return false
}

func moisture(v float64) *float64 { return &v }

func ref(id int) *int { return &id }

func testRegistry(t *testing.T) (*Registry, *recordingSink) {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	sink := &recordingSink{}
	return NewRegistry(store, nil, sink), sink
}

// seedHierarchy registers user 1 -> greenhouse 10 -> zones 100, 101,
// device 1000 in zone 100, device 1001 directly in the greenhouse, and
// service 500.
func seedHierarchy(t *testing.T, r *Registry) {
	t.Helper()
	mustOK := func(msg string, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: %v", msg, err)
		}
	}
	_, err := r.RegisterUser(User{UserID: 1, UserName: "alice", ChatID: 4242})
	mustOK("register user", err)
	_, err = r.RegisterGreenhouse(Greenhouse{GreenhouseID: 10, Name: "north"}, 1)
	mustOK("register greenhouse", err)
	_, err = r.RegisterZone(Zone{ZoneID: 100, Name: "tomatoes", TemperatureRange: &TemperatureRange{Min: 18, Max: 24}, MoistureThreshold: moisture(40)}, 10)
	mustOK("register zone 100", err)
	_, err = r.RegisterZone(Zone{ZoneID: 101, Name: "basil", TemperatureRange: &TemperatureRange{Min: 25, Max: 30}, MoistureThreshold: moisture(55)}, 10)
	mustOK("register zone 101", err)
	_, err = r.RegisterDevice(Device{DeviceID: 1000, Type: "dht22"}, Owner{GreenhouseID: ref(10), ZoneID: ref(100)})
	mustOK("register device 1000", err)
	_, err = r.RegisterDevice(Device{DeviceID: 1001, Type: "relay"}, Owner{GreenhouseID: ref(10)})
	mustOK("register device 1001", err)
	_, err = r.RegisterService(Service{ServiceID: 500, Name: "irrigation"})
	mustOK("register service", err)
}

func TestRegisterDuplicateIDs(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"device", func() error {
			_, err := r.RegisterDevice(Device{DeviceID: 1000}, Owner{GreenhouseID: ref(10)})
			return err
		}, ErrDeviceExists},
		{"service", func() error {
			_, err := r.RegisterService(Service{ServiceID: 500})
			return err
		}, ErrServiceExists},
		{"greenhouse", func() error {
			_, err := r.RegisterGreenhouse(Greenhouse{GreenhouseID: 10}, 1)
			return err
		}, ErrGreenhouseExists},
		{"zone", func() error {
			_, err := r.RegisterZone(Zone{ZoneID: 100}, 10)
			return err
		}, ErrZoneExists},
		{"user", func() error {
			_, err := r.RegisterUser(User{UserID: 1})
			return err
		}, ErrUserExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrConflict) {
				t.Errorf("error %v should match ErrConflict", err)
			}
		})
	}
}

func TestRegisterMissingOwners(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	if _, err := r.RegisterGreenhouse(Greenhouse{GreenhouseID: 11}, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("greenhouse under missing user: %v, want ErrUserNotFound", err)
	}
	if _, err := r.RegisterZone(Zone{ZoneID: 102}, 999); !errors.Is(err, ErrGreenhouseNotFound) {
		t.Errorf("zone under missing greenhouse: %v, want ErrGreenhouseNotFound", err)
	}
	if _, err := r.RegisterDevice(Device{DeviceID: 1002}, Owner{GreenhouseID: ref(999)}); !errors.Is(err, ErrGreenhouseNotFound) {
		t.Errorf("device under missing greenhouse: %v, want ErrGreenhouseNotFound", err)
	}
	if _, err := r.RegisterDevice(Device{DeviceID: 1002}, Owner{GreenhouseID: ref(10), ZoneID: ref(999)}); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("device under missing zone: %v, want ErrZoneNotFound", err)
	}
}

func TestDeviceOwnerForms(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	// A bare zone reference is how sensors register themselves.
	if _, err := r.RegisterDevice(Device{DeviceID: 2000, Type: "soil"}, Owner{ZoneID: ref(100)}); err != nil {
		t.Fatalf("zone-only registration: %v", err)
	}
	devices, err := r.DevicesOfZone(100)
	if err != nil {
		t.Fatalf("devices of zone: %v", err)
	}
	found := false
	for _, d := range devices {
		if d.DeviceID == 2000 {
			found = true
		}
	}
	if !found {
		t.Errorf("device 2000 missing from zone 100 devices: %+v", devices)
	}

	_, err = r.RegisterDevice(Device{DeviceID: 2001}, Owner{})
	if !errors.Is(err, ErrOwnerRequired) {
		t.Errorf("ownerless registration: %v, want ErrOwnerRequired", err)
	}
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("error %v should match ErrInvalid", err)
	}
	if _, err := r.Device(2001); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("device 2001 should not have been stored: %v", err)
	}
}

func TestTemperatureOverlapCheckedAgainstAllSiblings(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	// Zones 100 (18-24) and 101 (25-30) exist. A new zone that is clear
	// of zone 100 but intersects zone 101 must still be rejected.
	_, err := r.RegisterZone(Zone{ZoneID: 102, TemperatureRange: &TemperatureRange{Min: 28, Max: 35}, MoistureThreshold: moisture(50)}, 10)
	if !errors.Is(err, ErrTemperatureOverlap) {
		t.Errorf("overlap with second sibling: %v, want ErrTemperatureOverlap", err)
	}

	// Touching endpoints count as overlapping.
	_, err = r.RegisterZone(Zone{ZoneID: 102, TemperatureRange: &TemperatureRange{Min: 30, Max: 35}, MoistureThreshold: moisture(50)}, 10)
	if !errors.Is(err, ErrTemperatureOverlap) {
		t.Errorf("touching endpoint: %v, want ErrTemperatureOverlap", err)
	}

	// A disjoint range is fine.
	if _, err := r.RegisterZone(Zone{ZoneID: 102, TemperatureRange: &TemperatureRange{Min: 31, Max: 35}, MoistureThreshold: moisture(50)}, 10); err != nil {
		t.Errorf("disjoint range rejected: %v", err)
	}

	// Ranges only collide within the same greenhouse.
	if _, err := r.RegisterGreenhouse(Greenhouse{GreenhouseID: 11}, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := r.RegisterZone(Zone{ZoneID: 200, TemperatureRange: &TemperatureRange{Min: 18, Max: 24}, MoistureThreshold: moisture(50)}, 11); err != nil {
		t.Errorf("same range in a different greenhouse rejected: %v", err)
	}
}

func TestZoneRequiresMoistureThreshold(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	_, err := r.RegisterZone(Zone{ZoneID: 102, TemperatureRange: &TemperatureRange{Min: 31, Max: 35}}, 10)
	if !errors.Is(err, ErrMoistureRequired) {
		t.Errorf("zone without threshold: %v, want ErrMoistureRequired", err)
	}
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("error %v should match ErrInvalid", err)
	}
}

func TestUpdateZoneExcludesItselfFromOverlapCheck(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	// Re-submitting the zone's own range must not count as an overlap.
	if _, err := r.UpdateZone(Zone{ZoneID: 100, TemperatureRange: &TemperatureRange{Min: 18, Max: 24}}); err != nil {
		t.Errorf("self-overlap rejected: %v", err)
	}
	// Moving into the sibling's range still fails.
	if _, err := r.UpdateZone(Zone{ZoneID: 100, TemperatureRange: &TemperatureRange{Min: 24, Max: 27}}); !errors.Is(err, ErrTemperatureOverlap) {
		t.Errorf("overlap on update: %v, want ErrTemperatureOverlap", err)
	}
}

func TestTemperatureRangeInverted(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)
	_, err := r.RegisterZone(Zone{ZoneID: 102, TemperatureRange: &TemperatureRange{Min: 40, Max: 35}, MoistureThreshold: moisture(50)}, 10)
	if !errors.Is(err, ErrTemperatureRangeInverted) {
		t.Errorf("inverted range: %v, want ErrTemperatureRangeInverted", err)
	}
}

func TestApplyMoistureDelta(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	// Dedicated zone with threshold 10.
	if _, err := r.RegisterZone(Zone{ZoneID: 102, TemperatureRange: &TemperatureRange{Min: 31, Max: 35}, MoistureThreshold: moisture(10)}, 10); err != nil {
		t.Fatal(err)
	}

	threshold := func() float64 {
		t.Helper()
		z, err := r.Zone(102)
		if err != nil {
			t.Fatal(err)
		}
		if z.MoistureThreshold == nil {
			t.Fatal("zone lost its threshold")
		}
		return *z.MoistureThreshold
	}

	// A delta that would drop below zero is rejected and nothing moves.
	if _, err := r.ApplyMoistureDelta(102, -15); !errors.Is(err, ErrMoistureOutOfRange) {
		t.Errorf("delta -15 from 10: %v, want ErrMoistureOutOfRange", err)
	}
	if got := threshold(); got != 10 {
		t.Errorf("threshold after rejected delta = %g, want 10", got)
	}

	// 10 + 40 = 50.
	msg, err := r.ApplyMoistureDelta(102, 40)
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Moisture threshold of zone 102 has been set to 50" {
		t.Errorf("message = %q", msg)
	}
	if got := threshold(); got != 50 {
		t.Errorf("threshold = %g, want 50", got)
	}

	// 50 + 50 = 100 is still in bounds; one more step is not.
	if _, err := r.ApplyMoistureDelta(102, 50); err != nil {
		t.Errorf("delta to exactly 100 rejected: %v", err)
	}
	if _, err := r.ApplyMoistureDelta(102, 0.1); !errors.Is(err, ErrMoistureOutOfRange) {
		t.Errorf("delta past 100: %v, want ErrMoistureOutOfRange", err)
	}

	if _, err := r.ApplyMoistureDelta(999, 5); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("missing zone: %v, want ErrZoneNotFound", err)
	}
}

func TestRemoveDeviceScrubsReferences(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	msg, err := r.RemoveDevice(1000)
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Device with ID 1000 has been removed" {
		t.Errorf("message = %q", msg)
	}
	z, err := r.Zone(100)
	if err != nil {
		t.Fatal(err)
	}
	if len(z.Devices) != 0 {
		t.Errorf("zone still references removed device: %+v", z.Devices)
	}
	if _, err := r.Device(1000); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("device still present: %v", err)
	}
}

func TestRemoveZoneCascades(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	if _, err := r.RemoveZone(100); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Device(1000); !errors.Is(err, ErrDeviceNotFound) {
		t.Error("zone-owned device survived zone removal")
	}
	gh, err := r.Greenhouse(10)
	if err != nil {
		t.Fatal(err)
	}
	for _, ref := range gh.Zones {
		if ref.ZoneID == 100 {
			t.Error("greenhouse still references removed zone")
		}
	}
	// The greenhouse-level device is untouched.
	if _, err := r.Device(1001); err != nil {
		t.Errorf("greenhouse-level device removed: %v", err)
	}
}

func TestRemoveGreenhouseCascades(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	if _, err := r.RemoveGreenhouse(10); err != nil {
		t.Fatal(err)
	}
	for _, id := range []int{1000, 1001} {
		if _, err := r.Device(id); !errors.Is(err, ErrDeviceNotFound) {
			t.Errorf("device %d survived greenhouse removal", id)
		}
	}
	for _, id := range []int{100, 101} {
		if _, err := r.Zone(id); !errors.Is(err, ErrZoneNotFound) {
			t.Errorf("zone %d survived greenhouse removal", id)
		}
	}
	u, err := r.User(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Greenhouses) != 0 {
		t.Errorf("user still references removed greenhouse: %+v", u.Greenhouses)
	}
	// Services are flat; the cascade never touches them.
	if _, err := r.Service(500); err != nil {
		t.Errorf("service removed by greenhouse cascade: %v", err)
	}
}

func TestRemoveUserCascades(t *testing.T) {
	r, sink := testRegistry(t)
	seedHierarchy(t, r)

	if _, err := r.RemoveUser(1); err != nil {
		t.Fatal(err)
	}
	snap := r.Snapshot()
	if len(snap.Users) != 0 || len(snap.Greenhouses) != 0 || len(snap.Zones) != 0 || len(snap.Devices) != 0 {
		t.Errorf("user cascade left entities behind: %+v", snap)
	}
	if len(snap.Services) != 1 {
		t.Error("user cascade removed unrelated service")
	}
	if !sink.has("user", "removed", 1) {
		t.Error("missing user removed event")
	}
	if !sink.has("greenhouse", "removed", 10) {
		t.Error("missing cascaded greenhouse removed event")
	}
	if !sink.has("device", "removed", 1000) {
		t.Error("missing cascaded device removed event")
	}
}

func TestUpdateRefreshesLastUpdate(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	before, err := r.Device(1000)
	if err != nil {
		t.Fatal(err)
	}
	// The wire layout has second resolution, so force a visible gap by
	// backdating the stored stamp.
	backdate(t, r, -time.Hour)

	if _, err := r.UpdateDevice(Device{DeviceID: 1000}); err != nil {
		t.Fatal(err)
	}
	after, err := r.Device(1000)
	if err != nil {
		t.Fatal(err)
	}
	if !after.LastUpdate.After(before.LastUpdate.Add(-time.Minute)) {
		t.Errorf("lastUpdate not refreshed: before=%v after=%v", before.LastUpdate, after.LastUpdate)
	}
	if after.Type != "dht22" {
		t.Errorf("zero-valued update clobbered type: %q", after.Type)
	}
}

// backdate shifts every device and service lastUpdate by delta.
func backdate(t *testing.T, r *Registry, delta time.Duration) {
	t.Helper()
	err := r.store.Mutate(func(c *Catalog) error {
		for i := range c.Devices {
			c.Devices[i].LastUpdate = Timestamp{c.Devices[i].LastUpdate.Add(delta)}
		}
		for i := range c.Services {
			c.Services[i].LastUpdate = Timestamp{c.Services[i].LastUpdate.Add(delta)}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("backdating: %v", err)
	}
}

func TestSweepInactiveEvictsStaleEntries(t *testing.T) {
	r, sink := testRegistry(t)
	seedHierarchy(t, r)

	backdate(t, r, -2*time.Minute)
	// A fresh heartbeat rescues device 1000.
	if _, err := r.UpdateDevice(Device{DeviceID: 1000}); err != nil {
		t.Fatal(err)
	}

	result, err := r.SweepInactive(80*time.Second, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Devices) != 1 || result.Devices[0] != 1001 {
		t.Errorf("evicted devices = %v, want [1001]", result.Devices)
	}
	if len(result.Services) != 1 || result.Services[0] != 500 {
		t.Errorf("evicted services = %v, want [500]", result.Services)
	}
	if _, err := r.Device(1000); err != nil {
		t.Error("fresh device evicted")
	}
	gh, err := r.Greenhouse(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(gh.Devices) != 0 {
		t.Error("greenhouse still references evicted device")
	}
	if !sink.has("device", "evicted", 1001) || !sink.has("service", "evicted", 500) {
		t.Error("missing eviction events")
	}
}

func TestSweepInactiveNoStaleEntriesIsNoOp(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	before := r.LastUpdate()
	result, err := r.SweepInactive(80*time.Second, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Devices) != 0 || len(result.Services) != 0 {
		t.Errorf("sweep evicted fresh entries: %+v", result)
	}
	if !r.LastUpdate().Equal(before.Time) {
		t.Error("no-op sweep rewrote the document")
	}
}

func TestGetFilters(t *testing.T) {
	r, _ := testRegistry(t)
	seedHierarchy(t, r)

	devices, err := r.DevicesOfGreenhouse(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 2 {
		t.Errorf("devices of greenhouse 10 = %d, want 2", len(devices))
	}
	devices, err = r.DevicesOfZone(100)
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 1 || devices[0].DeviceID != 1000 {
		t.Errorf("devices of zone 100 = %+v, want device 1000", devices)
	}
	zones, err := r.ZonesOfGreenhouse(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(zones) != 2 {
		t.Errorf("zones of greenhouse 10 = %d, want 2", len(zones))
	}
	ids, err := r.ZoneIDsOfGreenhouse(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != 100 || ids[1] != 101 {
		t.Errorf("zone IDs of greenhouse 10 = %v, want [100 101]", ids)
	}
	ghs, err := r.GreenhousesOfUser(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(ghs) != 1 || ghs[0].GreenhouseID != 10 {
		t.Errorf("greenhouses of user 1 = %+v", ghs)
	}
	if _, err := r.DevicesOfGreenhouse(999); !errors.Is(err, ErrGreenhouseNotFound) {
		t.Errorf("missing greenhouse filter: %v", err)
	}
	if _, err := r.GreenhousesOfUser(999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user filter: %v", err)
	}
}

func TestRegisterMessages(t *testing.T) {
	r, _ := testRegistry(t)
	msg, err := r.RegisterUser(User{UserID: 7})
	if err != nil {
		t.Fatal(err)
	}
	if msg != "User with ID 7 has been added" {
		t.Errorf("message = %q", msg)
	}
	msg, err = r.RegisterGreenhouse(Greenhouse{GreenhouseID: 3}, 7)
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Greenhouse with ID 3 has been added" {
		t.Errorf("message = %q", msg)
	}
}
