package catalog

// Cascade helpers. Each operates on the mutable working copy inside a
// Store.Mutate call and keeps every back-reference list consistent with
// the entity lists.

// removed tallies what a cascading delete took with it.
type removed struct {
	Devices     []int
	Zones       []int
	Greenhouses []int
}

// deleteDevice removes a device record and every reference to it.
func (c *Catalog) deleteDevice(id int) bool {
	found := false
	for i := range c.Devices {
		if c.Devices[i].DeviceID == id {
			c.Devices = append(c.Devices[:i], c.Devices[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for i := range c.Greenhouses {
		c.Greenhouses[i].Devices = dropDeviceRef(c.Greenhouses[i].Devices, id)
	}
	for i := range c.Zones {
		c.Zones[i].Devices = dropDeviceRef(c.Zones[i].Devices, id)
	}
	return true
}

// deleteService removes a service record.
func (c *Catalog) deleteService(id int) bool {
	for i := range c.Services {
		if c.Services[i].ServiceID == id {
			c.Services = append(c.Services[:i], c.Services[i+1:]...)
			return true
		}
	}
	return false
}

// deleteZone removes a zone, the devices it owns, and the greenhouse
// references pointing at it.
func (c *Catalog) deleteZone(id int, tally *removed) bool {
	z := c.findZone(id)
	if z == nil {
		return false
	}
	owned := make([]int, 0, len(z.Devices))
	for _, ref := range z.Devices {
		owned = append(owned, ref.DeviceID)
	}
	for _, deviceID := range owned {
		if c.deleteDevice(deviceID) && tally != nil {
			tally.Devices = append(tally.Devices, deviceID)
		}
	}
	for i := range c.Zones {
		if c.Zones[i].ZoneID == id {
			c.Zones = append(c.Zones[:i], c.Zones[i+1:]...)
			break
		}
	}
	for i := range c.Greenhouses {
		c.Greenhouses[i].Zones = dropZoneRef(c.Greenhouses[i].Zones, id)
	}
	if tally != nil {
		tally.Zones = append(tally.Zones, id)
	}
	return true
}

// deleteGreenhouse removes a greenhouse, its zones, every device owned at
// either level, and the user references pointing at it.
func (c *Catalog) deleteGreenhouse(id int, tally *removed) bool {
	gh := c.findGreenhouse(id)
	if gh == nil {
		return false
	}
	zoneIDs := make([]int, 0, len(gh.Zones))
	for _, ref := range gh.Zones {
		zoneIDs = append(zoneIDs, ref.ZoneID)
	}
	deviceIDs := make([]int, 0, len(gh.Devices))
	for _, ref := range gh.Devices {
		deviceIDs = append(deviceIDs, ref.DeviceID)
	}
	for _, zoneID := range zoneIDs {
		c.deleteZone(zoneID, tally)
	}
	for _, deviceID := range deviceIDs {
		if c.deleteDevice(deviceID) && tally != nil {
			tally.Devices = append(tally.Devices, deviceID)
		}
	}
	for i := range c.Greenhouses {
		if c.Greenhouses[i].GreenhouseID == id {
			c.Greenhouses = append(c.Greenhouses[:i], c.Greenhouses[i+1:]...)
			break
		}
	}
	for i := range c.Users {
		c.Users[i].Greenhouses = dropGreenhouseRef(c.Users[i].Greenhouses, id)
	}
	if tally != nil {
		tally.Greenhouses = append(tally.Greenhouses, id)
	}
	return true
}

// deleteUser removes a user and cascades through every greenhouse the
// user owns.
func (c *Catalog) deleteUser(id int, tally *removed) bool {
	u := c.findUser(id)
	if u == nil {
		return false
	}
	ghIDs := make([]int, 0, len(u.Greenhouses))
	for _, ref := range u.Greenhouses {
		ghIDs = append(ghIDs, ref.GreenhouseID)
	}
	for _, ghID := range ghIDs {
		c.deleteGreenhouse(ghID, tally)
	}
	for i := range c.Users {
		if c.Users[i].UserID == id {
			c.Users = append(c.Users[:i], c.Users[i+1:]...)
			return true
		}
	}
	return true
}

func dropDeviceRef(refs []DeviceRef, id int) []DeviceRef {
	out := refs[:0]
	for _, r := range refs {
		if r.DeviceID != id {
			out = append(out, r)
		}
	}
	return out
}

func dropZoneRef(refs []ZoneRef, id int) []ZoneRef {
	out := refs[:0]
	for _, r := range refs {
		if r.ZoneID != id {
			out = append(out, r)
		}
	}
	return out
}

func dropGreenhouseRef(refs []GreenhouseRef, id int) []GreenhouseRef {
	out := refs[:0]
	for _, r := range refs {
		if r.GreenhouseID != id {
			out = append(out, r)
		}
	}
	return out
}
