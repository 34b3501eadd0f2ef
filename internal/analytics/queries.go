package analytics

import "fmt"

// Query names the dimensions, metrics and restrictions of one Core
// Reporting request. Dimension, metric and sort entries are bare
// names, the ga: prefix is added when the request is built. Filters
// and Segment go to the API verbatim.
type Query struct {
	Name       string
	Doc        string
	Dimensions []string
	Metrics    []string
	Sort       []string
	Filters    string
	Segment    string
}

// TrafficGoals reports sessions per source and medium together with
// first-goal and all-goal starts and completions, busiest first.
func TrafficGoals() Query {
	return Query{
		Name:       "traffic_goals",
		Doc:        "Traffic per source and medium with goal starts and completions, sorted by total goal completions.",
		Dimensions: []string{"source", "medium"},
		Metrics: []string{
			"sessions",
			"goal1Starts",
			"goal1Completions",
			"goalStartsAll",
			"goalCompletionsAll",
			"goalValueAll",
		},
		Sort: []string{"-goalCompletionsAll"},
	}
}

// PageHits reports page views per path, with the site's utility
// pages filtered out.
func PageHits() Query {
	return Query{
		Name:       "page_hits",
		Doc:        "Page views per path, most viewed first.",
		Dimensions: []string{"pagePath"},
		Metrics:    []string{"pageviews"},
		Sort:       []string{"-pageviews"},
		Filters:    "ga:pagePath!@index.html;ga:pagePath!@faq.html;ga:pagePath!@spec.html",
	}
}

// GoalCompletion reports where goal n, between 1 and 4, was completed.
func GoalCompletion(n int) (Query, error) {
	if n < 1 || n > 4 {
		return Query{}, fmt.Errorf("goal number %d out of range, the reporting API tracks goals 1 to 4", n)
	}
	metric := fmt.Sprintf("goal%dCompletions", n)
	return Query{
		Name:       fmt.Sprintf("goal%d_completion", n),
		Doc:        fmt.Sprintf("Completion locations for goal %d.", n),
		Dimensions: []string{"goalCompletionLocation"},
		Metrics:    []string{metric},
		Sort:       []string{"-" + metric},
	}, nil
}

// MobileTraffic reports sessions from mobile devices, using the
// built-in mobile traffic segment.
func MobileTraffic() Query {
	return Query{
		Name:       "mobile_traffic",
		Doc:        "Sessions, page views and duration from mobile devices.",
		Dimensions: []string{"mobileDeviceInfo"},
		Metrics:    []string{"sessions", "pageviews", "sessionDuration"},
		Segment:    "gaid::-14",
		Sort:       []string{"-pageviews"},
	}
}

// ReferringSites reports traffic arriving through referrals.
func ReferringSites() Query {
	return Query{
		Name:       "referring_sites",
		Doc:        "Page views, duration and exits per referring site.",
		Dimensions: []string{"source"},
		Metrics:    []string{"pageviews", "sessionDuration", "exits"},
		Filters:    "ga:medium==referral",
		Sort:       []string{"-pageviews"},
	}
}

// Queries lists every canned query.
func Queries() []Query {
	qs := []Query{TrafficGoals(), PageHits()}
	for n := 1; n <= 4; n++ {
		q, _ := GoalCompletion(n)
		qs = append(qs, q)
	}
	return append(qs, MobileTraffic(), ReferringSites())
}

// ByName finds a canned query by its name.
func ByName(name string) (Query, bool) {
	for _, q := range Queries() {
		if q.Name == name {
			return q, true
		}
	}
	return Query{}, false
}
