// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	persistMetricSubsystem = "persist"

	OpExport = "export"
	OpImport = "import"

	SuccessLabel = "success"
	FailLabel    = "fail"
)

var (
	persistRegisterOnce sync.Once

	PersistOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: objkitNamespace,
			Subsystem: persistMetricSubsystem,
			Name:      "operations_total",
			Help:      "导入/导出操作次数，按操作类型、格式与结果区分",
		}, []string{operationLabelName, formatLabelName, statusLabelName})

	PersistBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: objkitNamespace,
			Subsystem: persistMetricSubsystem,
			Name:      "bytes_total",
			Help:      "成功导入/导出的字节总数",
		}, []string{operationLabelName, formatLabelName})

	PersistLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: objkitNamespace,
			Subsystem: persistMetricSubsystem,
			Name:      "latency",
			Help:      "导入/导出耗时，单位毫秒",
			Buckets:   buckets,
		}, []string{operationLabelName, formatLabelName})
)

// RegisterPersist 注册持久化相关指标，重复调用只生效一次。
func RegisterPersist(r prometheus.Registerer) {
	persistRegisterOnce.Do(func() {
		r.MustRegister(PersistOperations)
		r.MustRegister(PersistBytes)
		r.MustRegister(PersistLatency)
	})
}
