package assets

// Categories is the fixed directory tree the site expects.
var Categories = []string{
	"hero",
	"services",
	"team",
	"about",
	"blog",
	"icons",
}

// DefaultCatalog lists the stock images the marketing pages use, each with a
// primary source and alternates tried in order when the primary is down.
var DefaultCatalog = []Spec{
	{
		Name:     "hero-main.jpg",
		Category: "hero",
		URLs: []string{
			"https://images.unsplash.com/photo-1550751827-4bd374c3f58b?w=1920&q=80",
			"https://images.unsplash.com/photo-1563013544-824ae1b704d3?w=1920&q=80",
			"https://picsum.photos/seed/aegis-hero/1920/1080",
		},
	},
	{
		Name:     "pentest.jpg",
		Category: "services",
		URLs: []string{
			"https://images.unsplash.com/photo-1555949963-aa79dcee981c?w=1200&q=80",
			"https://picsum.photos/seed/aegis-pentest/1200/800",
		},
	},
	{
		Name:     "incident-response.jpg",
		Category: "services",
		URLs: []string{
			"https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=1200&q=80",
			"https://picsum.photos/seed/aegis-ir/1200/800",
		},
	},
	{
		Name:     "compliance.jpg",
		Category: "services",
		URLs: []string{
			"https://images.unsplash.com/photo-1454165804606-c3d57bc86b40?w=1200&q=80",
			"https://picsum.photos/seed/aegis-compliance/1200/800",
		},
	},
	{
		Name:     "team-office.jpg",
		Category: "team",
		URLs: []string{
			"https://images.unsplash.com/photo-1522071820081-009f0129c71c?w=1200&q=80",
			"https://picsum.photos/seed/aegis-team/1200/800",
		},
	},
	{
		Name:     "about-soc.jpg",
		Category: "about",
		URLs: []string{
			"https://images.unsplash.com/photo-1558494949-ef010cbdcc31?w=1200&q=80",
			"https://picsum.photos/seed/aegis-soc/1200/800",
		},
	},
	{
		Name:     "blog-default.jpg",
		Category: "blog",
		URLs: []string{
			"https://images.unsplash.com/photo-1526374965328-7f61d4dc18c5?w=1200&q=80",
			"https://picsum.photos/seed/aegis-blog/1200/800",
		},
	},
}
