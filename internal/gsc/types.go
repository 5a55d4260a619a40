package gsc

// maxRowLimit is the largest page size searchanalytics.query accepts.
// Queries asking for more rows than this paginate.
const maxRowLimit = 25000

// Search surfaces accepted by Query.SearchType.
const (
	SearchTypeWeb        = "web"
	SearchTypeImage      = "image"
	SearchTypeVideo      = "video"
	SearchTypeNews       = "news"
	SearchTypeDiscover   = "discover"
	SearchTypeGoogleNews = "googleNews"
)

// Data states accepted by Query.DataState. The default, final, excludes
// fresh rows the API may still revise.
const (
	DataStateFinal = "final"
	DataStateAll   = "all"
)

// Dimensions accepted by Query.Dimension. The API is the authority on
// valid combinations; this package passes dimension names through.
const (
	DimensionCountry          = "country"
	DimensionDate             = "date"
	DimensionDevice           = "device"
	DimensionPage             = "page"
	DimensionQuery            = "query"
	DimensionSearchAppearance = "searchAppearance"
)

// Filter operators accepted by Query.Filter.
const (
	OperatorEquals         = "equals"
	OperatorNotEquals      = "notEquals"
	OperatorContains       = "contains"
	OperatorNotContains    = "notContains"
	OperatorIncludingRegex = "includingRegex"
	OperatorExcludingRegex = "excludingRegex"
)

// Filter group types. The API accepts "or" syntactically but only honors
// "and" today.
const (
	GroupTypeAnd = "and"
	GroupTypeOr  = "or"
)
