// Package query is a keyed read cache with request deduplication and
// freshness rules, plus the mutation wrapper that invalidates it.
//
// # Keys
//
// A [Key] is a resource name followed by parameters, compared part by part:
//
//	query.NewKey("posts", "golang", 2, nil) // ["posts","golang",2,null]
//	query.NewKey("posts", "golang")         // prefix of the key above
//
// Absent optional parameters are encoded as null, so distinct tuples never
// collide. Invalidate and Remove take a prefix and affect the whole family.
//
// # Reads
//
//   - [Get] returns cached data while it is fresh and fetches otherwise.
//   - [Ensure] returns any cached data that has not been invalidated, regardless
//     of age. It is what route loaders use.
//   - [Peek] never fetches.
//
// Concurrent reads of one key share a single fetch. The fetch runs detached
// from any one caller's cancellation: a caller whose context ends stops
// waiting, and the result may still populate the cache. Errors are never
// cached. A fetch for a key invalidated or removed while it was in flight does
// not write its result back.
//
// # Freshness
//
// StaleTime < 0 ([Infinite]) means data never goes stale on its own; zero means
// every Get refetches. GCTime bounds how long an entry stays in storage without
// being rewritten.
//
// # Storage
//
// Entries are stored as JSON in a [cache.Cache], in memory by default or in
// Redis via [WithStore]. Each reader decodes its own copy of the value.
//
// # Mutations
//
//	create := query.Mutation[NewPost, Post]{
//	    Name: "createPost",
//	    Do:   api.CreatePost,
//	    OnSuccess: func(ctx context.Context, c *query.Client, in NewPost, _ Post) error {
//	        return c.Invalidate(ctx, query.NewKey("posts", in.Slug))
//	    },
//	}
//	post, err := create.Execute(ctx, client, in)
package query
