package fig

// Charset identifies the character encoding of a label, per EN 300 401
// clause 5.2 / dab_constants/charsets.h.
type Charset byte

const (
	CharsetEBU        Charset = 0
	CharsetUTF8       Charset = 0xF
	CharsetUCS2       Charset = 0x6
	CharsetReserved   Charset = 0xFF
)

// TreatZeroECCAsUnset preserves the original decoder's policy of ignoring an
// Extended Country Code of 0x00 (treated as "not yet known" rather than a
// real country code), resolving the ECC==0x00 open question.
const TreatZeroECCAsUnset = true

// ProgrammeType is one of the 32 standard DAB programme types (EN 300 401
// annex, international table); only the generic/most common entries are
// named, the rest are accessible numerically.
type ProgrammeType byte

const (
	PTyNone ProgrammeType = iota
	PTyNews
	PTyCurrentAffairs
	PTyInformation
	PTySport
	PTyEducation
	PTyDrama
	PTyCulture
	PTyScience
	PTyVaried
	PTyPopMusic
	PTyRockMusic
	PTyEasyListening
	PTyLightClassical
	PTySeriousClassical
	PTyOtherMusic
	PTyWeather
	PTyFinance
	PTyChildrens
	PTySocialAffairs
	PTyReligion
	PTyPhoneIn
	PTyTravel
	PTyLeisure
	PTyJazz
	PTyCountry
	PTyNationalMusic
	PTyOldiesMusic
	PTyFolkMusic
	PTyDocumentary
	PTyAlarmTest
	PTyAlarm
)

// TransportMode identifies how a service component is carried (stream
// audio/data, or packet-mode data), per the service component descriptor.
type TransportMode byte

const (
	TransportStreamModeAudio TransportMode = 0
	TransportStreamModeData  TransportMode = 1
	TransportFIDCMode        TransportMode = 2
	TransportPacketModeData  TransportMode = 3
)

// AudioServiceType distinguishes DAB (MP2) from DAB+ (AAC) stream audio.
type AudioServiceType byte

const (
	AudioServiceDAB  AudioServiceType = 0 // ASCTy 0: MPEG Layer II
	AudioServiceDABPlus AudioServiceType = 63 // ASCTy 63: HE-AACv2
)

// DataServiceType enumerates the packet-mode/FIDC data service application
// types relevant to MOT/slideshow processing.
type DataServiceType byte

const (
	DataServiceUnspecified DataServiceType = 0
	DataServiceTMC         DataServiceType = 1
	DataServiceEWS         DataServiceType = 2
	DataServiceMOT         DataServiceType = 5
	DataServiceProprietary DataServiceType = 63
)

// EEPType distinguishes Equal Error Protection profile A from profile B.
type EEPType byte

const (
	EEPTypeA EEPType = 0
	EEPTypeB EEPType = 1
)
