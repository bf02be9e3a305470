package catalog

import (
	"github.com/KaramelBytes/titlescope/internal/engine"
	"github.com/KaramelBytes/titlescope/internal/table"
)

// ViolenceKeywords mark a description as violent.
var ViolenceKeywords = []string{"kill", "violence"}

const topN = 10

func byCountDesc() engine.Step { return engine.SortStep(engine.Desc("TotalContent")) }

// Builtins returns the eighteen stock analyses in catalog order. Each call
// returns fresh values, so callers may modify them.
func Builtins() []engine.Pipeline {
	movie := engine.Equals(table.ColType, table.TypeMovie)
	show := engine.Equals(table.ColType, table.TypeTVShow)
	return []engine.Pipeline{
		{
			Name:        "content_by_type",
			Description: "Number of titles per type",
			Steps: []engine.Step{
				engine.GroupStep([]engine.Key{engine.By(table.ColType, "Type")}, engine.Count("TotalContent")),
				byCountDesc(),
			},
		},
		{
			Name:        "content_by_release_year",
			Description: "Number of titles per release year, newest first",
			Steps: []engine.Step{
				engine.GroupStep([]engine.Key{engine.By(table.ColReleaseYear, "Year")}, engine.Count("TotalContent")),
				engine.SortStep(engine.Desc("Year")),
			},
		},
		{
			Name:        "content_by_rating",
			Description: "Number of titles per maturity rating",
			Steps: []engine.Step{
				engine.GroupStep([]engine.Key{engine.By(table.ColRating, "Rating")}, engine.Count("TotalContent")),
				byCountDesc(),
			},
		},
		{
			Name:        "content_by_genre",
			Description: "Number of titles listed under each genre",
			Steps: []engine.Step{
				engine.GroupStep([]engine.Key{engine.By(table.ColListedIn, "Genre")}, engine.Count("TotalContent")),
				byCountDesc(),
			},
		},
		{
			Name:        "top_countries",
			Description: "Ten countries producing the most titles",
			Steps: []engine.Step{
				engine.GroupStep([]engine.Key{engine.By(table.ColCountry, "Country")}, engine.Count("TotalContent")),
				byCountDesc(),
				engine.LimitStep(topN),
			},
		},
		{
			Name:        "top_directors",
			Description: "Ten most prolific directors",
			Steps: []engine.Step{
				engine.FilterStep(engine.NotNull(table.ColDirector)),
				engine.GroupStep([]engine.Key{engine.By(table.ColDirector, "Director")}, engine.Count("TotalContent")),
				byCountDesc(),
				engine.LimitStep(topN),
			},
		},
		{
			Name:        "top_actors",
			Description: "Ten actors with the most appearances",
			Steps: []engine.Step{
				engine.GroupStep([]engine.Key{engine.By(table.ColCast, "Actor")}, engine.Count("Appearances")),
				engine.SortStep(engine.Desc("Appearances")),
				engine.LimitStep(topN),
			},
		},
		{
			Name:        "most_common_rating_by_type",
			Description: "Most frequent rating for each type, ties kept",
			Steps: []engine.Step{
				engine.FilterStep(engine.NotNull(table.ColRating)),
				engine.GroupStep([]engine.Key{engine.By(table.ColType, "Type"), engine.By(table.ColRating, "Rating")}, engine.Count("TotalContent")),
				engine.TopStep("TotalContent", "Type"),
			},
		},
		{
			Name:        "top_genre_per_country",
			Description: "Most frequent genre within each country, ties kept",
			Steps: []engine.Step{
				engine.GroupStep([]engine.Key{engine.By(table.ColCountry, "Country"), engine.By(table.ColListedIn, "Genre")}, engine.Count("TotalContent")),
				engine.TopStep("TotalContent", "Country"),
				engine.SortStep(engine.Asc("Country")),
			},
		},
		{
			Name:        "longest_movie",
			Description: "Movie(s) with the longest runtime",
			Steps: []engine.Step{
				engine.FilterStep(movie),
				engine.ProjectStep("DurationMinutes", engine.Magnitude(table.ColDuration)),
				engine.TopStep("DurationMinutes"),
				engine.SelectStep(engine.By(table.ColTitle, "Title"), engine.Key{Field: "DurationMinutes"}),
			},
		},
		{
			Name:        "longest_tv_show",
			Description: "TV show(s) with the most seasons, in years of twelve seasons",
			Steps: []engine.Step{
				engine.FilterStep(show),
				engine.TopStep(table.ColDuration),
				engine.ProjectStep("DurationInYears", engine.SeasonsToYears(table.ColDuration)),
				engine.SelectStep(engine.By(table.ColTitle, "Title"), engine.Key{Field: "DurationInYears"}),
			},
		},
		{
			Name:        "long_running_content",
			Description: "Movies over 120 minutes and shows over 10 seasons",
			Steps: []engine.Step{
				engine.FilterStep(engine.Or(
					engine.And(movie, engine.Compare(table.ColDuration, engine.Gt, 120)),
					engine.And(show, engine.Compare(table.ColDuration, engine.Gt, 10)),
				)),
				engine.SelectStep(engine.By(table.ColTitle, "Title"), engine.By(table.ColType, "Type"), engine.By(table.ColDuration, "Duration")),
			},
		},
		{
			Name:        "content_without_director",
			Description: "Titles with no credited director, newest first",
			Steps: []engine.Step{
				engine.FilterStep(engine.IsNull(table.ColDirector)),
				engine.SortStep(engine.Desc(table.ColReleaseYear)),
				engine.SelectStep(engine.By(table.ColTitle, "Title"), engine.By(table.ColType, "Type"), engine.By(table.ColReleaseYear, "ReleaseYear")),
			},
		},
		{
			Name:        "violence_classification",
			Description: "Titles counted as violent or non-violent by description keywords",
			Steps: []engine.Step{
				engine.ProjectStep("Category", engine.KeywordLabel(table.ColDescription, "Violent", "Non-violent", ViolenceKeywords...)),
				engine.GroupStep([]engine.Key{{Field: "Category"}}, engine.Count("TotalContent")),
				byCountDesc(),
			},
		},
		{
			Name:        "documentaries",
			Description: "Movies listed under Documentaries",
			Steps: []engine.Step{
				engine.FilterStep(engine.And(movie, engine.Contains(table.ColListedIn, "Documentaries"))),
				engine.SelectStep(engine.By(table.ColTitle, "Title"), engine.By(table.ColReleaseYear, "ReleaseYear")),
			},
		},
		{
			Name:        "content_added_by_year",
			Description: "Titles added to the catalog per year",
			Steps: []engine.Step{
				engine.ProjectStep("YearAdded", engine.YearOf(table.ColDateAdded)),
				engine.FilterStep(engine.NotNull("YearAdded")),
				engine.GroupStep([]engine.Key{{Field: "YearAdded"}}, engine.Count("TotalContent")),
				engine.SortStep(engine.Desc("YearAdded")),
			},
		},
		{
			Name:        "movies_vs_shows_by_year",
			Description: "Movies and TV shows released per year",
			Steps: []engine.Step{
				engine.GroupStep([]engine.Key{engine.By(table.ColReleaseYear, "Year")},
					engine.CountWhere(movie, "Movies"),
					engine.CountWhere(show, "TVShows"),
				),
				engine.SortStep(engine.Desc("Year")),
			},
		},
		{
			Name:        "movie_runtime_by_country",
			Description: "Ten countries with the most total movie minutes",
			Steps: []engine.Step{
				engine.FilterStep(movie),
				engine.ProjectStep("Minutes", engine.Magnitude(table.ColDuration)),
				engine.GroupStep([]engine.Key{engine.By(table.ColCountry, "Country")},
					engine.Count("Movies"),
					engine.Sum("Minutes", "TotalMinutes"),
					engine.Max("Minutes", "LongestMinutes"),
					engine.Max(table.ColReleaseYear, "LatestYear"),
				),
				engine.SortStep(engine.Desc("TotalMinutes")),
				engine.LimitStep(topN),
			},
		},
	}
}
