// Package pagination drains a paginated Aviationstack route sequentially.
//
// Aviationstack reports the total record count in each response's
// pagination.total field. The paginator fetches page one, derives the page
// count from the reported total, then walks offsets in limit-sized steps
// until either every available page is fetched or a caller-imposed page cap
// is reached.
//
// Example usage:
//
//	p, err := pagination.New(apiClient, pagination.Config{
//		Limit:    100,
//		MaxPages: pagination.MaxPagesUnbounded,
//		Delay:    0,
//	})
//	pages, err := p.Run(ctx, request.DefaultBaseURL, request.RouteFlights,
//		request.Params{DepartureIATA: "MKE"}, apiKey)
//
// Requests are strictly sequential: page N+1's offset and the decision to
// fetch it depend on page N's reported total. The timetable route is limited
// to one request per minute upstream, so the paginator refuses to start a
// run against it with an inter-page delay below 62 seconds.
//
// The reported total is re-read from every response because the upstream
// dataset is live. A larger total extends the run (within the page cap); a
// smaller total never retracts pages already fetched.
package pagination
