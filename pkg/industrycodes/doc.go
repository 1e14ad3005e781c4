// Package industrycodes matches free-text industry descriptions against the
// LinkedIn industry codes catalog by Levenshtein similarity.
//
// Quick start:
//
//	m, err := industrycodes.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	matches, _ := m.FindClosest("software dev", 3, industrycodes.Label)
//	fmt.Println(matches[0].Label, matches[0].Similarity) // Software Development 0.6
//
// New downloads the published catalog unless WithIndustries, WithCatalogFile
// or WithLoader supplies one. A Matcher is immutable and safe for concurrent
// use. Create once, reuse across requests.
package industrycodes
