package database

import (
	"github.com/dabradio/dabradio/internal/fig"
)

// UpdateResult reports what a setter call did.
type UpdateResult int

const (
	// ResultNoChange: the value was already set to exactly this, a no-op.
	ResultNoChange UpdateResult = iota
	// ResultSuccess: the field was previously unset and is now set.
	ResultSuccess
	// ResultConflict: the field was already set to a *different* value;
	// the existing value is kept (never silently overwritten).
	ResultConflict
)

// Statistics tracks global update counters across the whole database,
// mirroring the reference decoder's completion/conflict/update counters.
type Statistics struct {
	TotalEntities     int
	PendingEntities   int
	CompletedEntities int
	Conflicts         uint64
	Updates           uint64
}

// Updater wraps a Database with the dirty-bit/no-overwrite setter
// discipline used by every FIG callback path.
type Updater struct {
	db    *Database
	stats Statistics
}

// NewUpdater creates an updater over db.
func NewUpdater(db *Database) *Updater {
	return &Updater{db: db}
}

// Stats returns a copy of the running statistics.
func (u *Updater) Stats() Statistics {
	u.db.mu.RLock()
	defer u.db.mu.RUnlock()
	return u.recomputeStatsLocked()
}

func (u *Updater) recomputeStatsLocked() Statistics {
	s := u.stats
	s.TotalEntities = 1 + len(u.db.Services) + len(u.db.Components) + len(u.db.Subchannels)
	completed := 0
	if u.db.Ensemble.IsComplete() {
		completed++
	}
	for _, svc := range u.db.Services {
		if svc.IsComplete() {
			completed++
		}
	}
	for _, c := range u.db.Components {
		if c.IsComplete() {
			completed++
		}
	}
	for _, sc := range u.db.Subchannels {
		if sc.IsComplete() {
			completed++
		}
	}
	s.CompletedEntities = completed
	s.PendingEntities = s.TotalEntities - completed
	return s
}

func (u *Updater) record(result UpdateResult) UpdateResult {
	switch result {
	case ResultSuccess:
		u.stats.Updates++
	case ResultConflict:
		u.stats.Conflicts++
	}
	return result
}

// setByte applies the dirty-bit/no-overwrite discipline to a single byte
// field: unset (bit clear) -> Success, equal value -> NoChange, differing
// value -> Conflict.
func setByte(cur *byte, dirty *uint32, bit uint32, value byte) UpdateResult {
	if *dirty&bit == 0 {
		*cur = value
		*dirty |= bit
		return ResultSuccess
	}
	if *cur == value {
		return ResultNoChange
	}
	return ResultConflict
}

func setUint16(cur *uint16, dirty *uint32, bit uint32, value uint16) UpdateResult {
	if *dirty&bit == 0 {
		*cur = value
		*dirty |= bit
		return ResultSuccess
	}
	if *cur == value {
		return ResultNoChange
	}
	return ResultConflict
}

func setAudioServiceType(cur *fig.AudioServiceType, dirty *uint32, value fig.AudioServiceType) UpdateResult {
	if *dirty&scDirtyAudioType == 0 {
		*cur = value
		*dirty |= scDirtyAudioType
		return ResultSuccess
	}
	if *cur == value {
		return ResultNoChange
	}
	return ResultConflict
}

func setString(cur *string, dirty *uint32, bit uint32, value string) UpdateResult {
	if *dirty&bit == 0 {
		*cur = value
		*dirty |= bit
		return ResultSuccess
	}
	if *cur == value {
		return ResultNoChange
	}
	return ResultConflict
}

// --- Ensemble --------------------------------------------------------------

func (u *Updater) SetEnsembleID(countryID byte, ensembleID uint16) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.Ensemble.EnsembleID = ensembleID
	return u.record(setByte(&u.db.Ensemble.CountryID, &u.db.Ensemble.dirty, ensDirtyCountry, countryID))
}

func (u *Updater) SetEnsembleLabel(label string, mask uint16) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.Ensemble.ShortLabelMask = mask
	return u.record(setString(&u.db.Ensemble.Label, &u.db.Ensemble.dirty, ensDirtyLabel, label))
}

// SetEnsembleExtendedCountryCode applies the ECC==0 "unset" policy
// resolved from the reference decoder's open question.
func (u *Updater) SetEnsembleExtendedCountryCode(ecc byte) UpdateResult {
	if fig.TreatZeroECCAsUnset && ecc == 0 {
		return ResultNoChange
	}
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	return u.record(setByte(&u.db.Ensemble.ExtendedCountryCode, &u.db.Ensemble.dirty, ensDirtyECC, ecc))
}

func (u *Updater) SetEnsembleLTO(lto int8, intlTable byte) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.Ensemble.InternationalTable = intlTable
	if u.db.Ensemble.dirty&ensDirtyLTO == 0 {
		u.db.Ensemble.LTO = lto
		u.db.Ensemble.dirty |= ensDirtyLTO
		return u.record(ResultSuccess)
	}
	if u.db.Ensemble.LTO == lto {
		return ResultNoChange
	}
	return u.record(ResultConflict)
}

func (u *Updater) SetEnsembleReconfigurationCount(count uint16) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	return u.record(setUint16(&u.db.Ensemble.ReconfigurationCount, &u.db.Ensemble.dirty, ensDirtyReconfig, count))
}

func (u *Updater) SetEnsembleNbServices(n byte) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	return u.record(setByte(&u.db.Ensemble.NbServices, &u.db.Ensemble.dirty, ensDirtyNbServices, n))
}

// --- Service ---------------------------------------------------------------

func (u *Updater) getOrInsertService(ref uint32) *Service {
	if s, ok := u.db.Services[ref]; ok {
		return s
	}
	s := &Service{ServiceRef: ref}
	u.db.Services[ref] = s
	return s
}

func (u *Updater) SetServiceLabel(ref uint32, label string, mask uint16) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	s := u.getOrInsertService(ref)
	s.ShortLabelMask = mask
	return u.record(setString(&s.Label, &s.dirty, svcDirtyLabel, label))
}

func (u *Updater) SetServiceCountry(ref uint32, countryID, ecc byte) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	s := u.getOrInsertService(ref)
	s.ExtendedCountryCode = ecc
	return u.record(setByte(&s.CountryID, &s.dirty, svcDirtyCountry, countryID))
}

func (u *Updater) SetServiceProgrammeType(ref uint32, language byte, pty fig.ProgrammeType, hasLanguage, hasCC bool) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	s := u.getOrInsertService(ref)
	s.Language = language
	s.HasLanguage = hasLanguage
	s.HasClosedCaption = hasCC
	if s.dirty&svcDirtyProgrammeType == 0 {
		s.ProgrammeType = pty
		s.dirty |= svcDirtyProgrammeType
		return u.record(ResultSuccess)
	}
	if s.ProgrammeType == pty {
		return ResultNoChange
	}
	return u.record(ResultConflict)
}

// --- ServiceComponent --------------------------------------------------------

func (u *Updater) getOrInsertComponent(ref uint32, componentID byte) *ServiceComponent {
	key := componentKey{ref, componentID}
	if c, ok := u.db.Components[key]; ok {
		return c
	}
	c := &ServiceComponent{ServiceRef: ref, ComponentID: componentID}
	u.db.Components[key] = c
	svc := u.getOrInsertService(ref)
	svc.Components = append(svc.Components, componentID)
	return c
}

func (u *Updater) SetComponentStreamAudio(ref uint32, componentID, subChID byte, asTy fig.AudioServiceType, isPrimary bool) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	c := u.getOrInsertComponent(ref, componentID)
	c.TransportMode = fig.TransportStreamModeAudio
	c.IsPrimary = isPrimary
	c.dirty |= scDirtyTransportMode
	r1 := setByte(&c.SubChannelID, &c.dirty, scDirtySubChannel, subChID)
	r2 := setAudioServiceType(&c.AudioServiceType, &c.dirty, asTy)
	return u.record(worstResult(r1, r2))
}

func (u *Updater) SetComponentPacketData(ref uint32, componentID byte, globalID uint16, isPrimary bool) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	c := u.getOrInsertComponent(ref, componentID)
	c.TransportMode = fig.TransportPacketModeData
	c.IsPrimary = isPrimary
	c.dirty |= scDirtyTransportMode
	// GlobalID is the one documented exception to no-overwrite: some
	// transmitters re-key it over time, so later values simply replace it.
	c.GlobalID = globalID
	return u.record(ResultSuccess)
}

func (u *Updater) SetComponentLanguage(ref uint32, componentID, language byte) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	c := u.getOrInsertComponent(ref, componentID)
	return u.record(setByte(&c.Language, &c.dirty, scDirtyLanguage, language))
}

func (u *Updater) SetComponentLabel(ref uint32, componentID byte, label string, mask uint16) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	c := u.getOrInsertComponent(ref, componentID)
	c.ShortLabelMask = mask
	return u.record(setString(&c.Label, &c.dirty, scDirtyLabel, label))
}

// --- Subchannel --------------------------------------------------------------

func (u *Updater) getOrInsertSubchannel(id byte) *Subchannel {
	if s, ok := u.db.Subchannels[id]; ok {
		return s
	}
	s := &Subchannel{SubChannelID: id}
	u.db.Subchannels[id] = s
	return s
}

func (u *Updater) SetSubchannelUEP(id byte, startAddr uint16, tableIdx byte) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	s := u.getOrInsertSubchannel(id)
	s.IsUEP = true
	s.UEPTableIdx = tableIdx
	r1 := setUint16(&s.StartAddr, &s.dirty, subChDirtyStartAddr, startAddr)
	s.dirty |= subChDirtyProtection
	return u.record(r1)
}

func (u *Updater) SetSubchannelEEP(id byte, startAddr uint16, eepType fig.EEPType, option byte, subChSize uint16) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	s := u.getOrInsertSubchannel(id)
	s.IsUEP = false
	s.EEPType = eepType
	s.EEPOption = option
	s.SubChSize = subChSize
	r1 := setUint16(&s.StartAddr, &s.dirty, subChDirtyStartAddr, startAddr)
	s.dirty |= subChDirtyProtection
	return u.record(r1)
}

func (u *Updater) SetSubchannelFEC(id, scheme byte) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	s := u.getOrInsertSubchannel(id)
	return u.record(setByte(&s.FECScheme, &s.dirty, subChDirtyFEC, scheme))
}

// --- Frequency cross-references ---------------------------------------------

// addUniqueFreq appends freq if not already present, returning Success for a
// new entry and NoChange for a duplicate — FM/DRM/AMSS frequency sets are
// additive, never conflict-raising.
func addUniqueFreq(list *[]uint32, freq uint32) UpdateResult {
	for _, f := range *list {
		if f == freq {
			return ResultNoChange
		}
	}
	*list = append(*list, freq)
	return ResultSuccess
}

func (u *Updater) AddFMFrequency(ref uint32, freqKHz uint32) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	fm, ok := u.db.FMServices[ref]
	if !ok {
		fm = &FMService{ServiceRef: ref}
		u.db.FMServices[ref] = fm
	}
	return u.record(addUniqueFreq(&fm.FrequenciesKHz, freqKHz))
}

func (u *Updater) AddOtherEnsembleFrequency(ensembleID uint16, freqKHz uint32) UpdateResult {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	oe, ok := u.db.OtherEnsembles[ensembleID]
	if !ok {
		oe = &OtherEnsemble{EnsembleID: ensembleID}
		u.db.OtherEnsembles[ensembleID] = oe
	}
	return u.record(addUniqueFreq(&oe.FrequenciesKHz, freqKHz))
}

func worstResult(results ...UpdateResult) UpdateResult {
	worst := ResultNoChange
	for _, r := range results {
		if r > worst {
			worst = r
		}
	}
	return worst
}
