package slack

import (
	"fmt"
	"time"

	"github.com/gamehubz/matchday/internal/gamehubz"
	"github.com/slack-go/slack"
)

func matchupLine(match *gamehubz.Match) string {
	return fmt.Sprintf("%s vs %s", match.HomePlayer.Name, match.AwayPlayer.Name)
}

func startLine(match *gamehubz.Match) string {
	if match.Start == 0 {
		return match.ConfirmedTime
	}
	return time.Unix(match.Start, 0).Format("Monday 02 Jan, 15:04")
}

// formatScheduledNotification creates the Slack message for a freshly
// confirmed match time using Block Kit.
func (s *Notifier) formatScheduledNotification(match *gamehubz.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Match scheduled! 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s\nTime: %s", matchupLine(match), startLine(match))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var contextElements []slack.MixedElement
	contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "Both players' availability matched.", true, false))
	blocks = append(blocks, slack.NewContextBlock("", contextElements...))

	return slack.NewBlockMessage(blocks...)
}

// formatReadyNotification creates the Slack message for a match entering its
// ready phase.
func (s *Notifier) formatReadyNotification(match *gamehubz.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎮 Match is ready! 🎮", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s\nStarts: %s", matchupLine(match), startLine(match))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatResultNotification creates the Slack message for a finished match.
func (s *Notifier) formatResultNotification(match *gamehubz.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏁 Match finished! 🏁", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := matchupLine(match)
	if match.HomeScore != nil && match.AwayScore != nil {
		detailsText = fmt.Sprintf("%s\nScore: %d - %d", detailsText, *match.HomeScore, *match.AwayScore)
		switch {
		case *match.HomeScore > *match.AwayScore:
			detailsText += fmt.Sprintf("\n🏆 %s wins!", match.HomePlayer.Name)
		case *match.AwayScore > *match.HomeScore:
			detailsText += fmt.Sprintf("\n🏆 %s wins!", match.AwayPlayer.Name)
		}
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatSubmittedNotification creates the Slack message confirming an
// availability submission.
func (s *Notifier) formatSubmittedNotification(match *gamehubz.Match, slotCount int) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🗓️ Availability submitted", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s\n%d slot(s) sent. Waiting for opponent.", matchupLine(match), slotCount)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
