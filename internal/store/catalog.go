package store

func defaultPackages() []Package {
	return []Package{
		{ID: 1, Name: "Basic", Description: "Basic internet package", Price: 29.99, Speed: "50 Mbps"},
		{ID: 2, Name: "Standard", Description: "Standard internet package", Price: 49.99, Speed: "100 Mbps"},
		{ID: 3, Name: "Premium", Description: "Premium internet package", Price: 79.99, Speed: "300 Mbps"},
		{ID: 4, Name: "Ultra", Description: "Ultra-fast internet package", Price: 99.99, Speed: "1 Gbps"},
	}
}

func defaultSectors() []Sector {
	return []Sector{
		{ID: 1, Name: "Residential", Description: "Residential customers"},
		{ID: 2, Name: "Small Business", Description: "Small business customers"},
		{ID: 3, Name: "Corporate", Description: "Corporate customers"},
		{ID: 4, Name: "Government", Description: "Government agencies"},
	}
}
