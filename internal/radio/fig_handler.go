package radio

import (
	"log/slog"

	"github.com/dabradio/dabradio/internal/database"
	"github.com/dabradio/dabradio/internal/fig"
)

// figHandler adapts fig.Handler callbacks onto a database.Updater, the
// concrete translation of the reference decoder's DAB_Database_Updater
// callback wiring inside BasicFICRunner. Callbacks without a corresponding
// ensemble-database field (conditional access, service linking, user
// applications, X-PAD labels) fall through to the embedded fig.NoopHandler
// and are ignored without logging.
type figHandler struct {
	fig.NoopHandler
	updater *database.Updater
}

func newFIGHandler(updater *database.Updater) *figHandler {
	return &figHandler{updater: updater}
}

func (h *figHandler) OnEnsembleID(countryID byte, ensembleRef uint16, changeFlags byte, alarmFlag bool) {
	h.updater.SetEnsembleID(countryID, ensembleRef)
}

func (h *figHandler) OnEnsembleConfiguration(nbServices byte, reconfigurationCount uint16) {
	h.updater.SetEnsembleNbServices(nbServices)
	h.updater.SetEnsembleReconfigurationCount(reconfigurationCount)
}

func (h *figHandler) OnEnsembleCountry(lto int8, intlTable byte, ecc byte) {
	h.updater.SetEnsembleLTO(lto, intlTable)
	h.updater.SetEnsembleExtendedCountryCode(ecc)
}

func (h *figHandler) OnEnsembleLabel(ensembleID uint16, label string, mask uint16, _ fig.Charset) {
	h.updater.SetEnsembleLabel(label, mask)
}

func (h *figHandler) OnServiceLabel(serviceRef uint32, label string, mask uint16, _ fig.Charset) {
	h.updater.SetServiceLabel(serviceRef, label, mask)
}

func (h *figHandler) OnProgrammeType(serviceRef uint32, language byte, pty fig.ProgrammeType, hasLanguage, hasCC bool) {
	h.updater.SetServiceProgrammeType(serviceRef, language, pty, hasLanguage, hasCC)
}

func (h *figHandler) OnServiceComponentStreamAudio(serviceRef uint32, countryID, ecc byte, componentID, subChID byte, audioType fig.AudioServiceType, isPrimary bool) {
	h.updater.SetServiceCountry(serviceRef, countryID, ecc)
	h.updater.SetComponentStreamAudio(serviceRef, componentID, subChID, audioType, isPrimary)
}

func (h *figHandler) OnServiceComponentPacketData(serviceRef uint32, countryID, ecc byte, componentID byte, globalID uint16, isPrimary bool) {
	h.updater.SetServiceCountry(serviceRef, countryID, ecc)
	h.updater.SetComponentPacketData(serviceRef, componentID, globalID, isPrimary)
}

func (h *figHandler) OnServiceComponentLanguage(serviceRef uint32, componentID, language byte) {
	h.updater.SetComponentLanguage(serviceRef, componentID, language)
}

func (h *figHandler) OnServiceComponentLabel(serviceRef uint32, componentID byte, label string, mask uint16, _ fig.Charset) {
	h.updater.SetComponentLabel(serviceRef, componentID, label, mask)
}

func (h *figHandler) OnSubchannelShortForm(subChID byte, startAddr uint16, tableSwitch bool, tableIndex byte) {
	h.updater.SetSubchannelUEP(subChID, startAddr, tableIndex)
}

func (h *figHandler) OnSubchannelLongFormUEP(subChID byte, startAddr uint16, tableIndex byte) {
	h.updater.SetSubchannelUEP(subChID, startAddr, tableIndex)
}

func (h *figHandler) OnSubchannelLongFormEEP(subChID byte, startAddr uint16, option byte, eepType fig.EEPType, subChSize uint16) {
	h.updater.SetSubchannelEEP(subChID, startAddr, eepType, option, subChSize)
}

func (h *figHandler) OnSubchannelFEC(subChID byte, fecScheme byte) {
	h.updater.SetSubchannelFEC(subChID, fecScheme)
}

func (h *figHandler) OnFrequencyInformationFM(serviceRef uint32, freqsKHz []uint32) {
	for _, f := range freqsKHz {
		h.updater.AddFMFrequency(serviceRef, f)
	}
}

func (h *figHandler) OnFrequencyInformationEnsemble(ensembleID uint16, freqsKHz []uint32, _ bool) {
	for _, f := range freqsKHz {
		h.updater.AddOtherEnsembleFrequency(ensembleID, f)
	}
}

func (h *figHandler) OnDateTime(dt fig.DateTime) {
	slog.Debug("FIG 0/10 date-time received", "year", dt.Year, "month", dt.Month, "day", dt.Day)
}
