package telegram

import (
	"context"

	"subminder_reminder/internal/app"
	"subminder_reminder/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// ReportNotifier posts every finished run's summary to the operator chat.
type ReportNotifier struct {
	client     telegram.Client
	operatorID int64
	logger     *logrus.Entry
}

func NewReportNotifier(client telegram.Client, operatorID int64, logger *logrus.Entry) *ReportNotifier {
	return &ReportNotifier{client: client, operatorID: operatorID, logger: logger}
}

func (n *ReportNotifier) RunFinished(_ context.Context, report *app.RunReport) {
	if err := n.client.SendMessage(n.operatorID, report.Summary()); err != nil {
		n.logger.WithError(err).WithField("run_id", report.RunID).Error("Failed to send run summary to operator")
	}
}
