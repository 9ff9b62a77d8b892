package catalog

import (
	"fmt"
	"time"

	"github.com/verdantech/greenhouse-core/internal/infrastructure/logging"
)

// Event describes a catalog mutation for downstream consumers.
type Event struct {
	Entity string // device, service, greenhouse, zone, user
	Action string // registered, updated, removed, evicted
	ID     int
}

// EventSink receives catalog events. Implementations must not block;
// publishing happens after the mutation has been flushed.
type EventSink interface {
	Publish(Event)
}

// Owner names where a device hangs in the hierarchy. Exactly one of the
// fields must be set: a ZoneID attaches the device to that zone, a
// GreenhouseID attaches it directly to the greenhouse. When both are
// given the zone must belong to the named greenhouse.
type Owner struct {
	GreenhouseID *int
	ZoneID       *int
}

// Registry implements the catalog operations on top of a Store. All
// methods are safe for concurrent use.
type Registry struct {
	store  *Store
	log    *logging.Logger
	events EventSink
}

// NewRegistry wires a registry over the given store. events may be nil.
func NewRegistry(store *Store, log *logging.Logger, events EventSink) *Registry {
	if log == nil {
		log = logging.Default()
	}
	return &Registry{store: store, log: log, events: events}
}

func (r *Registry) emit(entity, action string, id int) {
	if r.events != nil {
		r.events.Publish(Event{Entity: entity, Action: action, ID: id})
	}
}

// Snapshot returns a deep copy of the whole catalog document.
func (r *Registry) Snapshot() *Catalog {
	return r.store.Snapshot()
}

// LastUpdate returns the document-level last update stamp.
func (r *Registry) LastUpdate() Timestamp {
	var ts Timestamp
	r.store.View(func(c *Catalog) { ts = c.LastUpdate })
	return ts
}

// ---- devices ----

// RegisterDevice adds a new device under the given owner. A named zone
// or greenhouse must exist; naming neither fails with ErrOwnerRequired.
// Registering an ID that is already present fails with ErrDeviceExists.
func (r *Registry) RegisterDevice(dev Device, owner Owner) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		if c.findDevice(dev.DeviceID) != nil {
			return ErrDeviceExists
		}
		switch {
		case owner.ZoneID != nil:
			z := c.findZone(*owner.ZoneID)
			if z == nil {
				return ErrZoneNotFound
			}
			if owner.GreenhouseID != nil {
				gh := c.findGreenhouse(*owner.GreenhouseID)
				if gh == nil {
					return ErrGreenhouseNotFound
				}
				if !containsZoneRef(gh.Zones, *owner.ZoneID) {
					return ErrZoneNotFound
				}
			}
			z.Devices = append(z.Devices, DeviceRef{DeviceID: dev.DeviceID})
			z.LastUpdate = Now()
		case owner.GreenhouseID != nil:
			gh := c.findGreenhouse(*owner.GreenhouseID)
			if gh == nil {
				return ErrGreenhouseNotFound
			}
			gh.Devices = append(gh.Devices, DeviceRef{DeviceID: dev.DeviceID})
			gh.LastUpdate = Now()
		default:
			return ErrOwnerRequired
		}
		dev.LastUpdate = Now()
		c.Devices = append(c.Devices, dev)
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("device registered", "device_id", dev.DeviceID, "type", dev.Type)
	r.emit("device", "registered", dev.DeviceID)
	return fmt.Sprintf("Device with ID %d has been added", dev.DeviceID), nil
}

// UpdateDevice refreshes an existing device record. This doubles as the
// liveness heartbeat: lastUpdate is restamped on every call. Zero-valued
// fields in dev leave the stored values untouched.
func (r *Registry) UpdateDevice(dev Device) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		stored := c.findDevice(dev.DeviceID)
		if stored == nil {
			return ErrDeviceNotFound
		}
		if dev.Type != "" {
			stored.Type = dev.Type
		}
		if dev.IP != "" {
			stored.IP = dev.IP
		}
		if dev.Port != 0 {
			stored.Port = dev.Port
		}
		stored.LastUpdate = Now()
		return nil
	})
	if err != nil {
		return "", err
	}
	r.emit("device", "updated", dev.DeviceID)
	return fmt.Sprintf("Device with ID %d has been updated", dev.DeviceID), nil
}

// RemoveDevice deletes a device and every reference to it.
func (r *Registry) RemoveDevice(id int) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		if !c.deleteDevice(id) {
			return ErrDeviceNotFound
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("device removed", "device_id", id)
	r.emit("device", "removed", id)
	return fmt.Sprintf("Device with ID %d has been removed", id), nil
}

// Device returns a device by ID.
func (r *Registry) Device(id int) (Device, error) {
	var (
		dev   Device
		found bool
	)
	r.store.View(func(c *Catalog) {
		if d := c.findDevice(id); d != nil {
			dev, found = *d, true
		}
	})
	if !found {
		return Device{}, ErrDeviceNotFound
	}
	return dev, nil
}

// Devices returns all registered devices.
func (r *Registry) Devices() []Device {
	var out []Device
	r.store.View(func(c *Catalog) {
		out = make([]Device, len(c.Devices))
		copy(out, c.Devices)
	})
	return out
}

// DevicesOfGreenhouse returns the devices owned directly by a greenhouse
// plus those owned by its zones.
func (r *Registry) DevicesOfGreenhouse(greenhouseID int) ([]Device, error) {
	var (
		out   []Device
		found bool
	)
	r.store.View(func(c *Catalog) {
		gh := c.findGreenhouse(greenhouseID)
		if gh == nil {
			return
		}
		found = true
		out = make([]Device, 0, len(gh.Devices))
		collect := func(refs []DeviceRef) {
			for _, ref := range refs {
				if d := c.findDevice(ref.DeviceID); d != nil {
					out = append(out, *d)
				}
			}
		}
		collect(gh.Devices)
		for _, zref := range gh.Zones {
			if z := c.findZone(zref.ZoneID); z != nil {
				collect(z.Devices)
			}
		}
	})
	if !found {
		return nil, ErrGreenhouseNotFound
	}
	return out, nil
}

// DevicesOfZone returns the devices owned by a zone.
func (r *Registry) DevicesOfZone(zoneID int) ([]Device, error) {
	var (
		out   []Device
		found bool
	)
	r.store.View(func(c *Catalog) {
		z := c.findZone(zoneID)
		if z == nil {
			return
		}
		found = true
		out = make([]Device, 0, len(z.Devices))
		for _, ref := range z.Devices {
			if d := c.findDevice(ref.DeviceID); d != nil {
				out = append(out, *d)
			}
		}
	})
	if !found {
		return nil, ErrZoneNotFound
	}
	return out, nil
}

// ---- services ----

// RegisterService adds a new service. Duplicate IDs fail with
// ErrServiceExists.
func (r *Registry) RegisterService(svc Service) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		if c.findService(svc.ServiceID) != nil {
			return ErrServiceExists
		}
		svc.LastUpdate = Now()
		c.Services = append(c.Services, svc)
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("service registered", "service_id", svc.ServiceID, "name", svc.Name)
	r.emit("service", "registered", svc.ServiceID)
	return fmt.Sprintf("Service with ID %d has been added", svc.ServiceID), nil
}

// UpdateService refreshes an existing service record; the liveness
// heartbeat for services.
func (r *Registry) UpdateService(svc Service) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		stored := c.findService(svc.ServiceID)
		if stored == nil {
			return ErrServiceNotFound
		}
		if svc.Name != "" {
			stored.Name = svc.Name
		}
		if svc.Endpoint != "" {
			stored.Endpoint = svc.Endpoint
		}
		stored.LastUpdate = Now()
		return nil
	})
	if err != nil {
		return "", err
	}
	r.emit("service", "updated", svc.ServiceID)
	return fmt.Sprintf("Service with ID %d has been updated", svc.ServiceID), nil
}

// RemoveService deletes a service.
func (r *Registry) RemoveService(id int) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		if !c.deleteService(id) {
			return ErrServiceNotFound
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("service removed", "service_id", id)
	r.emit("service", "removed", id)
	return fmt.Sprintf("Service with ID %d has been removed", id), nil
}

// Service returns a service by ID.
func (r *Registry) Service(id int) (Service, error) {
	var (
		svc   Service
		found bool
	)
	r.store.View(func(c *Catalog) {
		if s := c.findService(id); s != nil {
			svc, found = *s, true
		}
	})
	if !found {
		return Service{}, ErrServiceNotFound
	}
	return svc, nil
}

// Services returns all registered services.
func (r *Registry) Services() []Service {
	var out []Service
	r.store.View(func(c *Catalog) {
		out = make([]Service, len(c.Services))
		copy(out, c.Services)
	})
	return out
}

// ---- users ----

// RegisterUser adds a new user. Duplicate IDs fail with ErrUserExists.
func (r *Registry) RegisterUser(u User) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		if c.findUser(u.UserID) != nil {
			return ErrUserExists
		}
		if u.Greenhouses == nil {
			u.Greenhouses = []GreenhouseRef{}
		}
		u.LastUpdate = Now()
		c.Users = append(c.Users, u)
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("user registered", "user_id", u.UserID)
	r.emit("user", "registered", u.UserID)
	return fmt.Sprintf("User with ID %d has been added", u.UserID), nil
}

// UpdateUser refreshes an existing user. The stored greenhouse list is
// preserved; updates never rewrite ownership.
func (r *Registry) UpdateUser(u User) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		stored := c.findUser(u.UserID)
		if stored == nil {
			return ErrUserNotFound
		}
		if u.UserName != "" {
			stored.UserName = u.UserName
		}
		if u.ChatID != 0 {
			stored.ChatID = u.ChatID
		}
		stored.LastUpdate = Now()
		return nil
	})
	if err != nil {
		return "", err
	}
	r.emit("user", "updated", u.UserID)
	return fmt.Sprintf("User with ID %d has been updated", u.UserID), nil
}

// RemoveUser deletes a user and cascades through every greenhouse, zone,
// and device the user owns.
func (r *Registry) RemoveUser(id int) (string, error) {
	var tally removed
	err := r.store.Mutate(func(c *Catalog) error {
		tally = removed{}
		if !c.deleteUser(id, &tally) {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("user removed", "user_id", id,
		"greenhouses", len(tally.Greenhouses), "zones", len(tally.Zones), "devices", len(tally.Devices))
	r.emitCascade(tally)
	r.emit("user", "removed", id)
	return fmt.Sprintf("User with ID %d has been removed", id), nil
}

// User returns a user by ID.
func (r *Registry) User(id int) (User, error) {
	var (
		u     User
		found bool
	)
	r.store.View(func(c *Catalog) {
		if stored := c.findUser(id); stored != nil {
			u, found = *stored.DeepCopy(), true
		}
	})
	if !found {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// Users returns all registered users.
func (r *Registry) Users() []User {
	var out []User
	r.store.View(func(c *Catalog) {
		out = make([]User, 0, len(c.Users))
		for i := range c.Users {
			out = append(out, *c.Users[i].DeepCopy())
		}
	})
	return out
}

// ---- greenhouses ----

// RegisterGreenhouse adds a new greenhouse under an existing user.
func (r *Registry) RegisterGreenhouse(gh Greenhouse, userID int) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		if c.findGreenhouse(gh.GreenhouseID) != nil {
			return ErrGreenhouseExists
		}
		owner := c.findUser(userID)
		if owner == nil {
			return ErrUserNotFound
		}
		if gh.Zones == nil {
			gh.Zones = []ZoneRef{}
		}
		if gh.Devices == nil {
			gh.Devices = []DeviceRef{}
		}
		gh.LastUpdate = Now()
		c.Greenhouses = append(c.Greenhouses, gh)
		owner.Greenhouses = append(owner.Greenhouses, GreenhouseRef{GreenhouseID: gh.GreenhouseID})
		owner.LastUpdate = Now()
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("greenhouse registered", "greenhouse_id", gh.GreenhouseID, "user_id", userID)
	r.emit("greenhouse", "registered", gh.GreenhouseID)
	return fmt.Sprintf("Greenhouse with ID %d has been added", gh.GreenhouseID), nil
}

// UpdateGreenhouse refreshes an existing greenhouse. Zone and device
// lists are preserved; ownership is only changed by register and remove.
func (r *Registry) UpdateGreenhouse(gh Greenhouse) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		stored := c.findGreenhouse(gh.GreenhouseID)
		if stored == nil {
			return ErrGreenhouseNotFound
		}
		if gh.Name != "" {
			stored.Name = gh.Name
		}
		if gh.Thingspeak != nil {
			ts := *gh.Thingspeak
			stored.Thingspeak = &ts
		}
		stored.LastUpdate = Now()
		return nil
	})
	if err != nil {
		return "", err
	}
	r.emit("greenhouse", "updated", gh.GreenhouseID)
	return fmt.Sprintf("Greenhouse with ID %d has been updated", gh.GreenhouseID), nil
}

// RemoveGreenhouse deletes a greenhouse and cascades through its zones
// and devices.
func (r *Registry) RemoveGreenhouse(id int) (string, error) {
	var tally removed
	err := r.store.Mutate(func(c *Catalog) error {
		tally = removed{}
		if !c.deleteGreenhouse(id, &tally) {
			return ErrGreenhouseNotFound
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("greenhouse removed", "greenhouse_id", id,
		"zones", len(tally.Zones), "devices", len(tally.Devices))
	r.emitCascade(tally)
	return fmt.Sprintf("Greenhouse with ID %d has been removed", id), nil
}

// Greenhouse returns a greenhouse by ID.
func (r *Registry) Greenhouse(id int) (Greenhouse, error) {
	var (
		gh    Greenhouse
		found bool
	)
	r.store.View(func(c *Catalog) {
		if stored := c.findGreenhouse(id); stored != nil {
			gh, found = *stored.DeepCopy(), true
		}
	})
	if !found {
		return Greenhouse{}, ErrGreenhouseNotFound
	}
	return gh, nil
}

// Greenhouses returns all registered greenhouses.
func (r *Registry) Greenhouses() []Greenhouse {
	var out []Greenhouse
	r.store.View(func(c *Catalog) {
		out = make([]Greenhouse, 0, len(c.Greenhouses))
		for i := range c.Greenhouses {
			out = append(out, *c.Greenhouses[i].DeepCopy())
		}
	})
	return out
}

// GreenhousesOfUser returns the greenhouses a user owns.
func (r *Registry) GreenhousesOfUser(userID int) ([]Greenhouse, error) {
	var (
		out   []Greenhouse
		found bool
	)
	r.store.View(func(c *Catalog) {
		u := c.findUser(userID)
		if u == nil {
			return
		}
		found = true
		out = make([]Greenhouse, 0, len(u.Greenhouses))
		for _, ref := range u.Greenhouses {
			if gh := c.findGreenhouse(ref.GreenhouseID); gh != nil {
				out = append(out, *gh.DeepCopy())
			}
		}
	})
	if !found {
		return nil, ErrUserNotFound
	}
	return out, nil
}

// ---- zones ----

// RegisterZone adds a new zone under an existing greenhouse. The zone's
// temperature range must not intersect any sibling zone's range, and the
// moisture threshold must be present and lie in [0, 100].
func (r *Registry) RegisterZone(z Zone, greenhouseID int) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		if c.findZone(z.ZoneID) != nil {
			return ErrZoneExists
		}
		gh := c.findGreenhouse(greenhouseID)
		if gh == nil {
			return ErrGreenhouseNotFound
		}
		if err := c.validateZone(greenhouseID, z.ZoneID, z.TemperatureRange, z.MoistureThreshold); err != nil {
			return err
		}
		if z.Devices == nil {
			z.Devices = []DeviceRef{}
		}
		z.LastUpdate = Now()
		c.Zones = append(c.Zones, z)
		gh.Zones = append(gh.Zones, ZoneRef{ZoneID: z.ZoneID})
		gh.LastUpdate = Now()
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("zone registered", "zone_id", z.ZoneID, "greenhouse_id", greenhouseID)
	r.emit("zone", "registered", z.ZoneID)
	return fmt.Sprintf("Zone with ID %d has been added", z.ZoneID), nil
}

// UpdateZone refreshes an existing zone, re-running the temperature and
// moisture checks against the zone's current siblings. The stored device
// list is preserved.
func (r *Registry) UpdateZone(z Zone) (string, error) {
	err := r.store.Mutate(func(c *Catalog) error {
		stored := c.findZone(z.ZoneID)
		if stored == nil {
			return ErrZoneNotFound
		}
		greenhouseID, ok := c.greenhouseOfZone(z.ZoneID)
		if !ok {
			return ErrGreenhouseNotFound
		}
		rng := stored.TemperatureRange
		if z.TemperatureRange != nil {
			rng = z.TemperatureRange
		}
		moisture := stored.MoistureThreshold
		if z.MoistureThreshold != nil {
			moisture = z.MoistureThreshold
		}
		if err := c.validateZone(greenhouseID, z.ZoneID, rng, moisture); err != nil {
			return err
		}
		if z.Name != "" {
			stored.Name = z.Name
		}
		if z.PlantType != "" {
			stored.PlantType = z.PlantType
		}
		if z.ThingspeakFieldID != 0 {
			stored.ThingspeakFieldID = z.ThingspeakFieldID
		}
		if z.TemperatureRange != nil {
			r := *z.TemperatureRange
			stored.TemperatureRange = &r
		}
		if z.MoistureThreshold != nil {
			m := *z.MoistureThreshold
			stored.MoistureThreshold = &m
		}
		stored.LastUpdate = Now()
		return nil
	})
	if err != nil {
		return "", err
	}
	r.emit("zone", "updated", z.ZoneID)
	return fmt.Sprintf("Zone with ID %d has been updated", z.ZoneID), nil
}

// ApplyMoistureDelta shifts a zone's irrigation threshold by delta. The
// result must stay within [0, 100]; an out-of-range result leaves the
// stored threshold untouched.
func (r *Registry) ApplyMoistureDelta(zoneID int, delta float64) (string, error) {
	var applied float64
	err := r.store.Mutate(func(c *Catalog) error {
		stored := c.findZone(zoneID)
		if stored == nil {
			return ErrZoneNotFound
		}
		var current float64
		if stored.MoistureThreshold != nil {
			current = *stored.MoistureThreshold
		}
		applied = current + delta
		if err := validateMoisture(&applied); err != nil {
			return err
		}
		stored.MoistureThreshold = &applied
		stored.LastUpdate = Now()
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("moisture threshold adjusted", "zone_id", zoneID, "delta", delta, "threshold", applied)
	r.emit("zone", "updated", zoneID)
	return fmt.Sprintf("Moisture threshold of zone %d has been set to %g", zoneID, applied), nil
}

// RemoveZone deletes a zone and the devices it owns.
func (r *Registry) RemoveZone(id int) (string, error) {
	var tally removed
	err := r.store.Mutate(func(c *Catalog) error {
		tally = removed{}
		if !c.deleteZone(id, &tally) {
			return ErrZoneNotFound
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	r.log.Info("zone removed", "zone_id", id, "devices", len(tally.Devices))
	r.emitCascade(tally)
	return fmt.Sprintf("Zone with ID %d has been removed", id), nil
}

// Zone returns a zone by ID.
func (r *Registry) Zone(id int) (Zone, error) {
	var (
		z     Zone
		found bool
	)
	r.store.View(func(c *Catalog) {
		if stored := c.findZone(id); stored != nil {
			z, found = *stored.DeepCopy(), true
		}
	})
	if !found {
		return Zone{}, ErrZoneNotFound
	}
	return z, nil
}

// Zones returns all registered zones.
func (r *Registry) Zones() []Zone {
	var out []Zone
	r.store.View(func(c *Catalog) {
		out = make([]Zone, 0, len(c.Zones))
		for i := range c.Zones {
			out = append(out, *c.Zones[i].DeepCopy())
		}
	})
	return out
}

// ZonesOfGreenhouse returns the zones of a greenhouse.
func (r *Registry) ZonesOfGreenhouse(greenhouseID int) ([]Zone, error) {
	var (
		out   []Zone
		found bool
	)
	r.store.View(func(c *Catalog) {
		if c.findGreenhouse(greenhouseID) == nil {
			return
		}
		found = true
		zones := c.zonesOfGreenhouse(greenhouseID)
		out = make([]Zone, 0, len(zones))
		for i := range zones {
			out = append(out, *zones[i].DeepCopy())
		}
	})
	if !found {
		return nil, ErrGreenhouseNotFound
	}
	return out, nil
}

// ZoneIDsOfGreenhouse returns just the zone IDs referenced by a
// greenhouse, in registration order. The chat front-end uses this to
// offer a zone picker without fetching full records.
func (r *Registry) ZoneIDsOfGreenhouse(greenhouseID int) ([]int, error) {
	var (
		out   []int
		found bool
	)
	r.store.View(func(c *Catalog) {
		gh := c.findGreenhouse(greenhouseID)
		if gh == nil {
			return
		}
		found = true
		out = make([]int, 0, len(gh.Zones))
		for _, ref := range gh.Zones {
			out = append(out, ref.ZoneID)
		}
	})
	if !found {
		return nil, ErrGreenhouseNotFound
	}
	return out, nil
}

// ---- liveness ----

// SweepResult reports what a liveness sweep evicted.
type SweepResult struct {
	Devices  []int
	Services []int
}

// SweepInactive removes every device and service whose lastUpdate is
// older than threshold relative to now. Evictions cascade like ordinary
// removals. A sweep that evicts nothing does not touch the document.
func (r *Registry) SweepInactive(threshold time.Duration, now time.Time) (SweepResult, error) {
	var result SweepResult
	stale := false
	r.store.View(func(c *Catalog) {
		for i := range c.Devices {
			if c.Devices[i].LastUpdate.Age(now) > threshold {
				stale = true
				return
			}
		}
		for i := range c.Services {
			if c.Services[i].LastUpdate.Age(now) > threshold {
				stale = true
				return
			}
		}
	})
	if !stale {
		return result, nil
	}

	err := r.store.Mutate(func(c *Catalog) error {
		result = SweepResult{}
		for i := range c.Devices {
			if c.Devices[i].LastUpdate.Age(now) > threshold {
				result.Devices = append(result.Devices, c.Devices[i].DeviceID)
			}
		}
		for i := range c.Services {
			if c.Services[i].LastUpdate.Age(now) > threshold {
				result.Services = append(result.Services, c.Services[i].ServiceID)
			}
		}
		if len(result.Devices) == 0 && len(result.Services) == 0 {
			return errNothingStale
		}
		for _, id := range result.Devices {
			c.deleteDevice(id)
		}
		for _, id := range result.Services {
			c.deleteService(id)
		}
		return nil
	})
	if err == errNothingStale {
		return SweepResult{}, nil
	}
	if err != nil {
		return SweepResult{}, err
	}
	for _, id := range result.Devices {
		r.log.Info("device evicted", "device_id", id)
		r.emit("device", "evicted", id)
	}
	for _, id := range result.Services {
		r.log.Info("service evicted", "service_id", id)
		r.emit("service", "evicted", id)
	}
	return result, nil
}

// errNothingStale aborts a sweep mutation when the pre-check raced with a
// heartbeat and nothing is stale anymore.
var errNothingStale = fmt.Errorf("nothing stale")

// emitCascade publishes removal events for everything a cascade took.
func (r *Registry) emitCascade(tally removed) {
	for _, id := range tally.Devices {
		r.emit("device", "removed", id)
	}
	for _, id := range tally.Zones {
		r.emit("zone", "removed", id)
	}
	for _, id := range tally.Greenhouses {
		r.emit("greenhouse", "removed", id)
	}
}

// greenhouseOfZone finds which greenhouse references a zone.
func (c *Catalog) greenhouseOfZone(zoneID int) (int, bool) {
	for i := range c.Greenhouses {
		if containsZoneRef(c.Greenhouses[i].Zones, zoneID) {
			return c.Greenhouses[i].GreenhouseID, true
		}
	}
	return 0, false
}

func containsZoneRef(refs []ZoneRef, id int) bool {
	for _, r := range refs {
		if r.ZoneID == id {
			return true
		}
	}
	return false
}
