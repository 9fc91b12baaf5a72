// Package database implements the ensemble database: the receiver's
// accumulated model of the broadcast ensemble (services, components,
// subchannels, linkage) built incrementally from FIG callbacks, with
// dirty-bit tracking and conflict detection. The publish-cooldown snapshot
// policy lives in internal/radio's database manager. Grounded on the
// reference decoder's
// dab_database_entities.h / dab_database_updater.{h,cpp}.
package database

import (
	"sync"

	"github.com/dabradio/dabradio/internal/fig"
)

// Ensemble is the top-level broadcast ensemble description.
type Ensemble struct {
	EnsembleID           uint16
	CountryID            byte
	ExtendedCountryCode  byte
	Label                string
	ShortLabelMask       uint16
	LTO                  int8
	InternationalTable   byte
	ReconfigurationCount uint16
	NbServices           byte

	dirty uint32
}

const (
	ensDirtyLabel uint32 = 1 << iota
	ensDirtyCountry
	ensDirtyLTO
	ensDirtyReconfig
	ensDirtyNbServices
	ensDirtyECC
)

// IsComplete reports whether enough fields have been populated to consider
// the ensemble description usable.
func (e *Ensemble) IsComplete() bool {
	return e.dirty&(ensDirtyLabel|ensDirtyCountry) == (ensDirtyLabel | ensDirtyCountry)
}

// ServiceComponent describes one component (audio or data) of a service.
type ServiceComponent struct {
	ServiceRef               uint32
	ComponentID              byte
	TransportMode            fig.TransportMode
	SubChannelID             byte
	GlobalID                 uint16 // packet-mode/data service component global ID
	AudioServiceType         fig.AudioServiceType
	DataServiceType          fig.DataServiceType
	Language                 byte
	IsPrimary                bool
	Label                    string
	ShortLabelMask           uint16

	dirty uint32
}

const (
	scDirtyTransportMode uint32 = 1 << iota
	scDirtySubChannel
	scDirtyAudioType
	scDirtyDataType
	scDirtyLanguage
	scDirtyLabel
)

func (c *ServiceComponent) IsComplete() bool {
	required := scDirtyTransportMode
	switch c.TransportMode {
	case fig.TransportStreamModeAudio:
		required |= scDirtySubChannel | scDirtyAudioType
	case fig.TransportStreamModeData, fig.TransportPacketModeData:
		required |= scDirtySubChannel | scDirtyDataType
	}
	return c.dirty&required == required
}

// Service groups one or more ServiceComponents under a programme.
type Service struct {
	ServiceRef          uint32
	CountryID           byte
	ExtendedCountryCode byte
	Label               string
	ShortLabelMask      uint16
	ProgrammeType       fig.ProgrammeType
	Language            byte
	HasLanguage         bool
	HasClosedCaption    bool
	Components          []byte // component IDs belonging to this service

	dirty uint32
}

const (
	svcDirtyLabel uint32 = 1 << iota
	svcDirtyCountry
	svcDirtyProgrammeType
)

func (s *Service) IsComplete() bool {
	return s.dirty&(svcDirtyLabel|svcDirtyCountry) == (svcDirtyLabel | svcDirtyCountry)
}

// Subchannel describes one MSC subchannel's capacity and protection.
type Subchannel struct {
	SubChannelID byte
	StartAddr    uint16
	IsUEP        bool
	UEPTableIdx  byte
	EEPType      fig.EEPType
	EEPOption    byte
	SubChSize    uint16
	FECScheme    byte

	dirty uint32
}

const (
	subChDirtyStartAddr uint32 = 1 << iota
	subChDirtyProtection
	subChDirtyFEC
)

func (s *Subchannel) IsComplete() bool {
	return s.dirty&(subChDirtyStartAddr|subChDirtyProtection) == (subChDirtyStartAddr | subChDirtyProtection)
}

// LinkService records a service-linking relationship between ensembles.
type LinkService struct {
	LinkageSetNumber uint16
	IsActiveLink     bool
	IsHardLink       bool
	IsInternational  bool
	ServiceRefs      []uint32
}

// FMService/DRMService/AMSSService hold alternate-frequency cross-references
// to other broadcast systems carrying the same programme.
type FMService struct {
	ServiceRef      uint32
	FrequenciesKHz  []uint32
}

type DRMService struct {
	ServiceRef uint32
	ServiceIDs []uint32
}

type AMSSService struct {
	ServiceRef uint32
	ServiceIDs []uint32
}

// OtherEnsemble records another ensemble known only through FIG 0/21/24
// cross-references (not locally tuned).
type OtherEnsemble struct {
	EnsembleID     uint16
	FrequenciesKHz []uint32
	ServiceRefs    []uint32
}

// Database is the full accumulated model for one tuned ensemble.
type Database struct {
	mu sync.RWMutex

	Ensemble   Ensemble
	Services   map[uint32]*Service
	Components map[componentKey]*ServiceComponent
	Subchannels map[byte]*Subchannel
	LinkServices map[uint16]*LinkService
	FMServices  map[uint32]*FMService
	DRMServices map[uint32]*DRMService
	AMSSServices map[uint32]*AMSSService
	OtherEnsembles map[uint16]*OtherEnsemble
}

type componentKey struct {
	ServiceRef  uint32
	ComponentID byte
}

// New creates an empty database.
func New() *Database {
	return &Database{
		Services:       make(map[uint32]*Service),
		Components:     make(map[componentKey]*ServiceComponent),
		Subchannels:    make(map[byte]*Subchannel),
		LinkServices:   make(map[uint16]*LinkService),
		FMServices:     make(map[uint32]*FMService),
		DRMServices:    make(map[uint32]*DRMService),
		AMSSServices:   make(map[uint32]*AMSSService),
		OtherEnsembles: make(map[uint16]*OtherEnsemble),
	}
}

// Snapshot returns a deep-enough copy of the database for safe external
// consumption (e.g. by internal/server) without holding the writer lock.
func (d *Database) Snapshot() Database {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cp := Database{
		Ensemble:       d.Ensemble,
		Services:       make(map[uint32]*Service, len(d.Services)),
		Components:     make(map[componentKey]*ServiceComponent, len(d.Components)),
		Subchannels:    make(map[byte]*Subchannel, len(d.Subchannels)),
		LinkServices:   make(map[uint16]*LinkService, len(d.LinkServices)),
		FMServices:     make(map[uint32]*FMService, len(d.FMServices)),
		DRMServices:    make(map[uint32]*DRMService, len(d.DRMServices)),
		AMSSServices:   make(map[uint32]*AMSSService, len(d.AMSSServices)),
		OtherEnsembles: make(map[uint16]*OtherEnsemble, len(d.OtherEnsembles)),
	}
	for k, v := range d.Services {
		sv := *v
		cp.Services[k] = &sv
	}
	for k, v := range d.Components {
		cv := *v
		cp.Components[k] = &cv
	}
	for k, v := range d.Subchannels {
		sv := *v
		cp.Subchannels[k] = &sv
	}
	for k, v := range d.LinkServices {
		lv := *v
		cp.LinkServices[k] = &lv
	}
	for k, v := range d.FMServices {
		fv := *v
		cp.FMServices[k] = &fv
	}
	for k, v := range d.DRMServices {
		dv := *v
		cp.DRMServices[k] = &dv
	}
	for k, v := range d.AMSSServices {
		av := *v
		cp.AMSSServices[k] = &av
	}
	for k, v := range d.OtherEnsembles {
		ov := *v
		cp.OtherEnsembles[k] = &ov
	}
	return cp
}
