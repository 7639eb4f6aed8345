package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"sitecam/internal/footage"
	"sitecam/internal/platform/config"
	"sitecam/internal/platform/logger"
	"sitecam/internal/platform/respond"
	"sitecam/internal/timecode"
	"sitecam/internal/timeline"
)

// onlineWindow is how recent the latest clip must be for the camera to count as online.
const onlineWindow = 15 * time.Minute

type deviceStatus struct {
	DeviceID   string         `json:"deviceId"`
	Site       string         `json:"site"`
	Date       string         `json:"date"`
	Online     bool           `json:"online"`
	LatestClip *timeline.Clip `json:"latestClip"`
}

type deviceHandler struct {
	device config.Device
	clips  *footage.Service
	now    func() time.Time
	log    *slog.Logger
}

// GetStatus handles GET /api/device/status.
func (h *deviceHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	today := now.Format(timeline.DateLayout)

	latest, err := h.clips.LatestClip(r.Context(), today)
	if err != nil {
		h.log.Error("device status failed", logger.Err(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, deviceStatus{
		DeviceID:   h.device.ID,
		Site:       h.device.Site,
		Date:       today,
		Online:     isOnline(latest, now),
		LatestClip: latest,
	})
}

func isOnline(latest *timeline.Clip, now time.Time) bool {
	if latest == nil {
		return false
	}
	_, start, ok := timeline.ParseClipKey(latest.Key)
	if !ok {
		return false
	}
	endMinute := int(start) + timecode.SlotMinutes
	nowMinute := now.Hour()*60 + now.Minute()
	return nowMinute-endMinute <= int(onlineWindow/time.Minute)
}
