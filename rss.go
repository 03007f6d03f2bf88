package photoengine

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// feedSize is how many of the latest photos feed.xml lists.
const feedSize = 50

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	PubDate     string        `xml:"pubDate"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length int    `xml:"length,attr"`
}

func (a *App) renderRSS(c echo.Context, photos []Photo) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(photos))
	for _, p := range photos {
		photoURL := BuildURL(base, "p", p.IDShort)
		items = append(items, rssItem{
			Title:       TitleForPhoto(p),
			Link:        photoURL,
			Description: OGImageDescriptionForPhoto(p),
			PubDate:     p.TakenAt.Format(time.RFC1123Z),
			GUID:        photoURL,
			Enclosure: &rssEnclosure{
				URL:  AbsoluteURL(base, p.ImagePath()),
				Type: "image/jpeg",
			},
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
