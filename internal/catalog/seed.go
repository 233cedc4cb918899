package catalog

import "time"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SeedProducts returns the storefront's starter catalog. UpdatedAt mirrors CreatedAt.
func SeedProducts() []Product {
	products := []Product{
		{
			ID:          "1",
			Name:        "Wireless Bluetooth Headphones",
			Price:       99.99,
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=400&fit=crop&crop=center",
			Description: "High-quality wireless headphones with noise cancellation technology. Perfect for music lovers and professionals.",
			Category:    "Electronics",
			Rating:      4.5,
			InStock:     true,
			CreatedAt:   day(2024, 1, 15),
		},
		{
			ID:          "2",
			Name:        "Smart Fitness Watch",
			Price:       199.99,
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop&crop=center",
			Description: "Advanced fitness tracking with heart rate monitor, GPS, and smartphone connectivity.",
			Category:    "Electronics",
			Rating:      4.8,
			InStock:     true,
			CreatedAt:   day(2024, 1, 16),
		},
		{
			ID:          "3",
			Name:        "Organic Cotton T-Shirt",
			Price:       29.99,
			Image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop&crop=center",
			Description: "Comfortable and eco-friendly cotton t-shirt made from 100% organic materials.",
			Category:    "Clothing",
			Rating:      4.2,
			InStock:     true,
			CreatedAt:   day(2024, 1, 17),
		},
		{
			ID:          "4",
			Name:        "Stainless Steel Water Bottle",
			Price:       24.99,
			Image:       "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=400&h=400&fit=crop&crop=center",
			Description: "Insulated stainless steel water bottle that keeps drinks cold for 24 hours or hot for 12 hours.",
			Category:    "Home & Garden",
			Rating:      4.6,
			InStock:     false,
			CreatedAt:   day(2024, 1, 18),
		},
		{
			ID:          "5",
			Name:        "Wireless Charging Pad",
			Price:       49.99,
			Image:       "https://images.unsplash.com/photo-1586953208448-b95a79798f07?w=400&h=400&fit=crop&crop=center",
			Description: "Fast wireless charging pad compatible with all Qi-enabled devices. Sleek design for any desk setup.",
			Category:    "Electronics",
			Rating:      4.3,
			InStock:     true,
			CreatedAt:   day(2024, 1, 19),
		},
		{
			ID:          "6",
			Name:        "Leather Wallet",
			Price:       39.99,
			Image:       "https://images.unsplash.com/photo-1627123424574-724758594e93?w=400&h=400&fit=crop&crop=center",
			Description: "Genuine leather wallet with multiple card slots, coin pocket, and RFID protection.",
			Category:    "Accessories",
			Rating:      4.7,
			InStock:     true,
			CreatedAt:   day(2024, 1, 20),
		},
		{
			ID:          "7",
			Name:        "Portable Bluetooth Speaker",
			Price:       79.99,
			Image:       "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=400&h=400&fit=crop&crop=center",
			Description: "Waterproof portable speaker with 20-hour battery life and 360-degree sound.",
			Category:    "Electronics",
			Rating:      4.4,
			InStock:     true,
			CreatedAt:   day(2024, 1, 21),
		},
		{
			ID:          "8",
			Name:        "Yoga Mat",
			Price:       34.99,
			Image:       "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=400&h=400&fit=crop&crop=center",
			Description: "Non-slip yoga mat made from eco-friendly materials. Perfect thickness for comfort and stability.",
			Category:    "Sports & Fitness",
			Rating:      4.1,
			InStock:     true,
			CreatedAt:   day(2024, 1, 22),
		},
		{
			ID:          "9",
			Name:        "Coffee Maker",
			Price:       89.99,
			Image:       "https://images.unsplash.com/photo-1517668808822-9ebb02f2a0e6?w=400&h=400&fit=crop&crop=center",
			Description: "Programmable coffee maker with thermal carafe and built-in grinder for fresh coffee every morning.",
			Category:    "Home & Garden",
			Rating:      4.5,
			InStock:     true,
			CreatedAt:   day(2024, 1, 23),
		},
		{
			ID:          "10",
			Name:        "Running Shoes",
			Price:       129.99,
			Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400&h=400&fit=crop&crop=center",
			Description: "Lightweight running shoes with superior cushioning and breathable mesh upper.",
			Category:    "Sports & Fitness",
			Rating:      4.6,
			InStock:     true,
			CreatedAt:   day(2024, 1, 24),
		},
	}
	for i := range products {
		products[i].UpdatedAt = products[i].CreatedAt
	}
	return products
}
