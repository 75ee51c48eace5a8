package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"geonotes/internal/model"
	"geonotes/pkg/coords"
)

const dateLayout = "2006-01-02 15:04:05"

// PostView is what the terminal shows for one post.
type PostView struct {
	ID          string
	Kind        string
	Date        string
	Content     string
	Coordinates string
}

func toPostView(p model.Post) PostView {
	return PostView{
		ID:          strconv.FormatInt(p.ID, 10),
		Kind:        strings.ToUpper(string(p.Kind)),
		Date:        p.CreatedAt.Local().Format(dateLayout),
		Content:     p.Content,
		Coordinates: "Coordinates: " + coords.Format(p.Coordinates),
	}
}

func (v PostView) Render(w io.Writer) {
	fmt.Fprintf(w, "#%s [%s] %s\n  %s\n  %s\n", v.ID, v.Kind, v.Date, v.Content, v.Coordinates)
}
