package internal

import (
	"github.com/robfig/cron/v3"

	"github.com/habari-dev/whatsapp-gateway/pkg/env"
	"github.com/habari-dev/whatsapp-gateway/pkg/log"
	pkgWhatsApp "github.com/habari-dev/whatsapp-gateway/pkg/whatsapp"
)

// Routines registers the periodic session health check. Event handlers are
// the primary state update path; the cron pass only repairs drift.
func Routines(c *cron.Cron) {
	log.Print(nil).Info("Running Routine Tasks")

	if env.GetEnvBoolOrDefault("WHATSAPP_ENABLE_HEALTH_CHECK_CRON", true) {
		spec := env.GetEnvStringOrDefault("WHATSAPP_HEALTH_CHECK_CRON_SPEC", "0 */5 * * * *")
		_, err := c.AddFunc(spec, pkgWhatsApp.SyncState)
		if err != nil {
			log.Print(nil).WithField("error", err.Error()).Error("Failed to add health check cron job")
		}
	} else {
		log.Print(nil).Info("Health check cron disabled; relying on client event handlers")
	}

	c.Start()
}
