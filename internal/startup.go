package internal

import (
	"context"

	"github.com/habari-dev/whatsapp-gateway/pkg/log"
	pkgWhatsApp "github.com/habari-dev/whatsapp-gateway/pkg/whatsapp"
)

func Startup() {
	log.Print(nil).Info("Running Startup Tasks")

	ctx := context.Background()

	if err := pkgWhatsApp.InitDatastore(ctx); err != nil {
		log.Print(nil).WithError(err).Fatal("Failed to initialize WhatsApp datastore")
	}

	if err := pkgWhatsApp.InitClient(ctx); err != nil {
		// Keep serving /health and /status; retry through the reconnect path.
		log.Print(nil).WithError(err).Error("Failed to initialize WhatsApp client, retrying shortly")
		pkgWhatsApp.ScheduleReconnect()
	}
}
