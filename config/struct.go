package config

// Config represents the configuration for the application.
type Config struct {
	// Redis holds the configuration for the Redis database backing the
	// result cache. It includes the address, password, and database number.
	Redis struct {
		Addr     string `json:"addr" yaml:"addr"`
		Password string `json:"password" yaml:"password"`
		DB       int    `json:"db" yaml:"db"`
	} `json:"redis" yaml:"redis"`
	// CacheExpiration is the expiration time for the result cache, in seconds.
	CacheExpiration int `json:"cacheExpiration" yaml:"cacheExpiration"`
	// Port is the port number for the server.
	Port int `json:"port" yaml:"port"`
	// RateLimit is the maximum number of checks the server runs concurrently.
	RateLimit int `json:"rateLimit" yaml:"rateLimit"`
	// Cache holds the cache fallback configuration.
	Cache struct {
		RequireRedis        bool `json:"requireRedis" yaml:"requireRedis"`
		MemoryMaxSize       int  `json:"memoryMaxSize" yaml:"memoryMaxSize"`
		MemoryCleanInterval int  `json:"memoryCleanInterval" yaml:"memoryCleanInterval"`
	} `json:"cache" yaml:"cache"`
	// Providers holds the credentials and settings of the external data
	// providers consulted during a check.
	Providers struct {
		AuthorityKey         string   `json:"authorityKey" yaml:"authorityKey"`
		RegistrationUser     string   `json:"registrationUser" yaml:"registrationUser"`
		RegistrationPassword string   `json:"registrationPassword" yaml:"registrationPassword"`
		TrafficKey           string   `json:"trafficKey" yaml:"trafficKey"`
		TrafficDatabase      string   `json:"trafficDatabase" yaml:"trafficDatabase"`
		IndexSearchHost      string   `json:"indexSearchHost" yaml:"indexSearchHost"`
		ProxyList            []string `json:"proxyList" yaml:"proxyList"`
	} `json:"providers" yaml:"providers"`
	// SkipDeepChecksIfResolvable skips the paid provider lookups for
	// domains that resolve via DNS, unless a request overrides it.
	SkipDeepChecksIfResolvable bool `json:"skipDeepChecksIfResolvable" yaml:"skipDeepChecksIfResolvable"`
	// MinAuthorityScore skips the registration and traffic lookups for
	// domains below this trust flow. Zero leaves the threshold unset.
	MinAuthorityScore float64 `json:"minAuthorityScore" yaml:"minAuthorityScore"`
}
