package mailer

import (
	"bytes"
	"fmt"
	"time"

	g "github.com/maragudk/gomponents"
	c "github.com/maragudk/gomponents/components"
	. "github.com/maragudk/gomponents/html"
)

const dateLayout = "January 02, 2006"

var highlights = []string{
	"Latest tech news and updates",
	"AI-generated tech imagery",
	"Interactive tech quiz",
	"Tech humor of the day",
}

// Subject is the newsletter subject line for day.
func Subject(day time.Time) string {
	return "Daily Tech Newsletter - " + day.Format(dateLayout)
}

func plainBody(day time.Time) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Hello,\n\nYour daily tech newsletter for %s is attached.\n\nThis newsletter includes:\n", day.Format(dateLayout))
	for _, h := range highlights {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	b.WriteString("\nThe slide deck is attached for your review.\n\nBest regards,\nYour Tech Newsletter Team")
	return b.String()
}

func htmlBody(day time.Time) (string, error) {
	items := make([]g.Node, 0, len(highlights))
	for _, h := range highlights {
		items = append(items, Li(g.Text(h)))
	}

	var b bytes.Buffer
	err := c.HTML5(c.HTML5Props{
		Title:    Subject(day),
		Language: "en",
		Body: []g.Node{
			P(g.Text("Hello,")),
			P(g.Text("Your daily tech newsletter for "), Strong(g.Text(day.Format(dateLayout))), g.Text(" is attached.")),
			P(g.Text("This newsletter includes:")),
			Ul(items...),
			P(g.Text("The slide deck is attached for your review.")),
			P(g.Text("Best regards,"), Br(), g.Text("Your Tech Newsletter Team")),
		},
	}).Render(&b)
	if err != nil {
		return "", fmt.Errorf("render html body: %w", err)
	}
	return b.String(), nil
}
