package main

import (
	"os"

	"github.com/fwojciec/spider"
	"gopkg.in/yaml.v3"
)

// Policy is the crawl policy read from a --config YAML file.
//
// List values are combined with the matching flags. Scalar values only
// apply when the flag was left empty.
type Policy struct {
	Hosts        []string `yaml:"hosts"`
	Subdomains   bool     `yaml:"subdomains"`
	Include      []string `yaml:"include"`
	Exclude      []string `yaml:"exclude"`
	Selectors    []string `yaml:"selectors"`
	XPaths       []string `yaml:"xpaths"`
	ContentTypes []string `yaml:"content_types"`
	UserAgent    string   `yaml:"user_agent"`
}

// LoadPolicy reads a policy file. A missing file is ENOTFOUND and a
// malformed one is EINVALID.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, spider.Errorf(spider.ENOTFOUND, "policy file %q not found", path)
		}
		return nil, err
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, spider.Errorf(spider.EINVALID, "policy file %q: %v", path, err)
	}
	return &p, nil
}

// apply folds p into the command's flags.
func (c *CrawlCmd) apply(p *Policy) {
	c.Include = append(c.Include, p.Include...)
	c.Exclude = append(c.Exclude, p.Exclude...)
	c.Select = append(c.Select, p.Selectors...)
	c.XPath = append(c.XPath, p.XPaths...)
	c.ContentTypes = append(c.ContentTypes, p.ContentTypes...)
	if c.UserAgent == "" {
		c.UserAgent = p.UserAgent
	}
}
