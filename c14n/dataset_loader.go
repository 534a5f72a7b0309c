// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package c14n

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pquerna/cachecontrol"
)

// An HTTP Accept header that prefers N-Quads.
const acceptHeader = "application/n-quads, text/plain;q=0.5, */*;q=0.1"

// RemoteDataset is a dataset retrieved from a remote source.
type RemoteDataset struct {
	DocumentURL string
	Dataset     *Dataset
}

// DatasetLoader knows how to load N-Quads datasets from URLs or files.
type DatasetLoader interface {
	LoadDataset(u string) (*RemoteDataset, error)
}

// DefaultDatasetLoader is a standard implementation of DatasetLoader which
// retrieves documents via HTTP, or from the local filesystem for
// non-HTTP(S) locations.
type DefaultDatasetLoader struct {
	httpClient *http.Client
}

// NewDefaultDatasetLoader creates a new instance of DefaultDatasetLoader.
func NewDefaultDatasetLoader(httpClient *http.Client) *DefaultDatasetLoader {
	rval := &DefaultDatasetLoader{httpClient: httpClient}

	if rval.httpClient == nil {
		rval.httpClient = http.DefaultClient
	}
	return rval
}

// LoadDataset returns a RemoteDataset containing the parsed contents of
// the N-Quads resource at the given location.
func (dl *DefaultDatasetLoader) LoadDataset(u string) (*RemoteDataset, error) {
	remote, _, err := loadDataset(dl.httpClient, u)
	return remote, err
}

func loadDataset(client *http.Client, u string) (*RemoteDataset, *http.Response, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, nil, NewC14NError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	remote := &RemoteDataset{}

	protocol := parsedURL.Scheme
	if protocol != "http" && protocol != "https" {
		// Can't use the HTTP client for those!
		remote.DocumentURL = u
		file, err := os.Open(u)
		if err != nil {
			return nil, nil, NewC14NError(LoadingDocumentFailed, err)
		}
		defer file.Close()

		remote.Dataset, err = ParseNQuadsFrom(file)
		if err != nil {
			return nil, nil, err
		}
		return remote, nil, nil
	}

	req, err := http.NewRequest("GET", u, http.NoBody)
	if err != nil {
		return nil, nil, NewC14NError(LoadingDocumentFailed, err)
	}
	req.Header.Add("Accept", acceptHeader)

	res, err := client.Do(req)
	if err != nil {
		return nil, nil, NewC14NError(LoadingDocumentFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, nil, NewC14NError(LoadingDocumentFailed,
			fmt.Sprintf("Bad response status code: %d", res.StatusCode))
	}

	remote.DocumentURL = res.Request.URL.String()

	remote.Dataset, err = ParseNQuadsFrom(res.Body)
	if err != nil {
		return nil, nil, err
	}
	return remote, res, nil
}

// CachingDatasetLoader is an overlay on top of a DatasetLoader instance
// which caches datasets as soon as they get retrieved from the underlying
// loader. You may also preload it with datasets - this is useful for
// testing.
type CachingDatasetLoader struct {
	nextLoader DatasetLoader
	cache      map[string]*RemoteDataset
}

// NewCachingDatasetLoader creates a new instance of CachingDatasetLoader.
func NewCachingDatasetLoader(nextLoader DatasetLoader) *CachingDatasetLoader {
	return &CachingDatasetLoader{
		nextLoader: nextLoader,
		cache:      make(map[string]*RemoteDataset),
	}
}

// LoadDataset returns the cached dataset for the URL, retrieving it via
// the underlying loader on a miss.
func (cdl *CachingDatasetLoader) LoadDataset(u string) (*RemoteDataset, error) {
	if ds, cached := cdl.cache[u]; cached {
		return ds, nil
	}
	ds, err := cdl.nextLoader.LoadDataset(u)
	if err != nil {
		return nil, err
	}
	cdl.cache[u] = ds
	return ds, nil
}

// AddDataset populates the cache with the given dataset for the provided URL.
func (cdl *CachingDatasetLoader) AddDataset(u string, ds *Dataset) {
	cdl.cache[u] = &RemoteDataset{DocumentURL: u, Dataset: ds}
}

type cachedRemoteDataset struct {
	remoteDataset *RemoteDataset
	expireTime    time.Time
	neverExpires  bool
}

// RFC7234CachingDatasetLoader respects HTTP caching headers in order to
// cache effectively across repeated canonicalization runs.
type RFC7234CachingDatasetLoader struct {
	httpClient *http.Client
	cache      map[string]*cachedRemoteDataset
}

// NewRFC7234CachingDatasetLoader creates a new RFC7234CachingDatasetLoader.
func NewRFC7234CachingDatasetLoader(httpClient *http.Client) *RFC7234CachingDatasetLoader {
	rval := &RFC7234CachingDatasetLoader{
		httpClient: httpClient,
		cache:      make(map[string]*cachedRemoteDataset),
	}

	if httpClient == nil {
		rval.httpClient = http.DefaultClient
	}

	return rval
}

// LoadDataset returns a RemoteDataset containing the parsed contents of
// the N-Quads resource at the given location, caching the result for as
// long as the response headers allow. Local files never expire.
func (rcdl *RFC7234CachingDatasetLoader) LoadDataset(u string) (*RemoteDataset, error) {
	entry, ok := rcdl.cache[u]
	if ok && (entry.neverExpires || entry.expireTime.After(time.Now())) {
		return entry.remoteDataset, nil
	}

	remote, res, err := loadDataset(rcdl.httpClient, u)
	if err != nil {
		return nil, err
	}

	cacheEntry := &cachedRemoteDataset{remoteDataset: remote}
	if res == nil {
		// filesystem source
		cacheEntry.neverExpires = true
		rcdl.cache[u] = cacheEntry
	} else {
		reasons, expireTime, err := cachecontrol.CachableResponse(res.Request, res, cachecontrol.Options{})
		if err == nil && len(reasons) == 0 {
			cacheEntry.expireTime = expireTime
			rcdl.cache[u] = cacheEntry
		}
	}

	return remote, nil
}
