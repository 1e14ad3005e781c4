package industrycodes_test

import (
	"context"
	"fmt"
	"log"

	"github.com/crimson-sun/industry-codes/pkg/industrycodes"
)

func exampleIndustries() []industrycodes.Industry {
	return []industrycodes.Industry{
		industrycodes.NewIndustry(4, "Software Development",
			"Technology, Information and Media > Software Development", ""),
		industrycodes.NewIndustry(32, "Restaurants",
			"Accommodation Services > Food and Beverage Services > Restaurants", ""),
	}
}

func Example() {
	m, err := industrycodes.New(context.Background(),
		industrycodes.WithIndustries(exampleIndustries()))
	if err != nil {
		log.Fatal(err)
	}

	matches, err := m.FindClosest("software", 1, industrycodes.Label)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d %s distance=%d similarity=%.2f\n",
		matches[0].ID, matches[0].Label, matches[0].Distance, matches[0].Similarity)
	// Output:
	// 4 Software Development distance=12 similarity=0.40
}

func ExampleMatcher_Categories() {
	m, err := industrycodes.New(context.Background(),
		industrycodes.WithIndustries(exampleIndustries()))
	if err != nil {
		log.Fatal(err)
	}

	for _, c := range m.Categories() {
		fmt.Println(c)
	}
	for _, ind := range m.FindByCategory("accommodation services") {
		fmt.Println(ind.ID, ind.Label, ind.Depth)
	}
	// Output:
	// Accommodation Services
	// Technology, Information and Media
	// 32 Restaurants 3
}
